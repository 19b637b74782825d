package dto

// CreateNotificationRequest represents a notification creation payload
type CreateNotificationRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
	Type    string `json:"type" binding:"required"`
	UserID  int64  `json:"userId" binding:"required"`
}

// NotificationFilter holds optional list filters
type NotificationFilter struct {
	UserID *int64
	Type   *string
	Read   *bool
	Limit  int
	Offset int
}

package dto

// SendMessageRequest represents a message send payload
type SendMessageRequest struct {
	ChatID   int64  `json:"chatId" binding:"required"`
	SenderID int64  `json:"senderId" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// MessageFilter holds optional list filters
type MessageFilter struct {
	ChatID   *int64
	SenderID *int64
	Read     *bool
	Limit    int
	Offset   int
}

// MarkAllReadRequest identifies the caller marking a chat as read
type MarkAllReadRequest struct {
	UserID int64 `json:"callerUserId" binding:"required"`
}

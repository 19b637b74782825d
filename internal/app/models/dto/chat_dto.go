package dto

// CreateChatRequest represents a chat creation payload
type CreateChatRequest struct {
	UserAID int64 `json:"userA" binding:"required"`
	UserBID int64 `json:"userB" binding:"required"`
}

// ChatCreatedResponse distinguishes a freshly created chat from a pre-existing one
type ChatCreatedResponse struct {
	ID          int64  `json:"id"`
	PreExisting bool   `json:"preExisting"`
	Message     string `json:"message"`
}

// UpdateChatRequest is a partial update; nil fields are left untouched
type UpdateChatRequest struct {
	Active *bool `json:"active,omitempty"`
}

// ChatFilter holds optional list filters
type ChatFilter struct {
	ParticipantID *int64
	Active        *bool
	Limit         int
	Offset        int
}

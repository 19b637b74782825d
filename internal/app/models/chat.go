package models

import (
	"time"
)

// Chat defines a two-party conversation based on the 'chats' table.
// The pair (UserAID, UserBID) is unordered: at most one chat exists per pair,
// regardless of which participant is stored in which column.
type Chat struct {
	ID        int64     `json:"id" db:"id"`
	UserAID   int64     `json:"userAId" db:"user_a_id"`
	UserBID   int64     `json:"userBId" db:"user_b_id"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Denormalized participant display fields
	UserAName  *string `json:"userAName,omitempty"`
	UserAEmail *string `json:"userAEmail,omitempty"`
	UserAPhoto *string `json:"userAPhoto,omitempty"`
	UserBName  *string `json:"userBName,omitempty"`
	UserBEmail *string `json:"userBEmail,omitempty"`
	UserBPhoto *string `json:"userBPhoto,omitempty"`

	// Aggregates populated by list queries
	MessageCount  *int64     `json:"messageCount,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
}

// HasParticipant reports whether the given user is one of the chat's two participants.
func (c *Chat) HasParticipant(userID int64) bool {
	return c.UserAID == userID || c.UserBID == userID
}

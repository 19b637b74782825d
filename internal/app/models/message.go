package models

import (
	"time"
)

// Message defines the message model based on the 'messages' table
type Message struct {
	ID       int64     `json:"id" db:"id"`
	ChatID   int64     `json:"chatId" db:"chat_id"`
	SenderID int64     `json:"senderId" db:"sender_id"`
	Content  string    `json:"content" db:"content"`
	Read     bool      `json:"read" db:"read"`
	SentAt   time.Time `json:"sentAt" db:"sent_at"`

	// Denormalized sender display fields
	SenderName  *string `json:"senderName,omitempty"`
	SenderEmail *string `json:"senderEmail,omitempty"`
	SenderPhoto *string `json:"senderPhoto,omitempty"`
}

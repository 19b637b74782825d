package models

import (
	"time"
)

// Notification defines the notification model based on the 'notifications' table
type Notification struct {
	ID      int64     `json:"id" db:"id"`
	Title   string    `json:"title" db:"title"`
	Message string    `json:"message" db:"message"`
	Type    string    `json:"type" db:"notification_type"`
	Read    bool      `json:"read" db:"read"`
	UserID  int64     `json:"userId" db:"user_id"`
	SentAt  time.Time `json:"sentAt" db:"sent_at"`
}

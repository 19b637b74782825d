package models

import (
	"time"
)

// Recommendation defines the recommendation model based on the 'recommendations' table
type Recommendation struct {
	ID         int64     `json:"id" db:"id"`
	Reason     string    `json:"reason" db:"reason"`
	UserID     int64     `json:"userId" db:"user_id"`
	MaterialID int64     `json:"materialId" db:"material_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	MaterialTitle *string `json:"materialTitle,omitempty"`
	MaterialType  *string `json:"materialType,omitempty"`
}

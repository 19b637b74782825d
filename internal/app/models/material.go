package models

import (
	"time"
)

// MaterialObjective defines what the owner wants to do with a material
type MaterialObjective string

const (
	ObjectiveTrade    MaterialObjective = "trade"
	ObjectiveDonation MaterialObjective = "donation"
)

// Material defines the material model based on the 'materials' table
type Material struct {
	ID          int64             `json:"id" db:"id"`
	Title       string            `json:"title" db:"title"`
	Description *string           `json:"description,omitempty" db:"description"`
	Type        string            `json:"type" db:"material_type"`
	Condition   string            `json:"condition" db:"condition"`
	Category    *string           `json:"category,omitempty" db:"category"`
	ImageURL    *string           `json:"imageUrl,omitempty" db:"image_url"`
	Objective   MaterialObjective `json:"objective" db:"objective"`
	Location    *string           `json:"location,omitempty" db:"location"`
	Available   bool              `json:"available" db:"available"`
	OwnerID     int64             `json:"ownerId" db:"owner_id"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`

	Owner *User `json:"owner,omitempty"` // relation, no db tag
}

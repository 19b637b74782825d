package models

import (
	"time"
)

// Trade defines the trade model based on the 'trades' table.
// A trade without a completion timestamp is still in the requested state;
// cancelled trades are deleted, so absence of a row is the terminal state.
type Trade struct {
	ID          int64      `json:"id" db:"id"`
	MaterialID  int64      `json:"materialId" db:"material_id"`
	RequesterID int64      `json:"requesterId" db:"requester_id"`
	DonorID     int64      `json:"donorId" db:"donor_id"`
	Notes       *string    `json:"notes,omitempty" db:"notes"`
	RequestedAt time.Time  `json:"requestedAt" db:"requested_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`

	// Denormalized display fields populated by list/detail queries
	MaterialTitle  *string `json:"materialTitle,omitempty"`
	MaterialType   *string `json:"materialType,omitempty"`
	RequesterName  *string `json:"requesterName,omitempty"`
	RequesterEmail *string `json:"requesterEmail,omitempty"`
	DonorName      *string `json:"donorName,omitempty"`
	DonorEmail     *string `json:"donorEmail,omitempty"`
}

// IsCompleted reports whether the trade reached its terminal completed state.
func (t *Trade) IsCompleted() bool {
	return t.CompletedAt != nil
}

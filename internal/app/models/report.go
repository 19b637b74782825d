package models

import (
	"time"
)

// Report defines the report (denunciation) model based on the 'reports' table
type Report struct {
	ID          int64     `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	Type        string    `json:"type" db:"report_type"`
	Resolved    bool      `json:"resolved" db:"resolved"`
	ReporterID  int64     `json:"reporterId" db:"reporter_id"`
	ReportedID  *int64    `json:"reportedId,omitempty" db:"reported_id"`
	MaterialID  *int64    `json:"materialId,omitempty" db:"material_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	ReporterName *string `json:"reporterName,omitempty"`
	ReportedName *string `json:"reportedName,omitempty"`
}

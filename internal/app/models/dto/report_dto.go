package dto

// CreateReportRequest represents a report creation payload
type CreateReportRequest struct {
	Description string `json:"description" binding:"required"`
	Type        string `json:"type" binding:"required"`
	ReporterID  int64  `json:"reporterId" binding:"required"`
	ReportedID  *int64 `json:"reportedId,omitempty"`
	MaterialID  *int64 `json:"materialId,omitempty"`
}

// UpdateReportRequest is a partial update; nil fields are left untouched
type UpdateReportRequest struct {
	Description *string `json:"description,omitempty"`
	Resolved    *bool   `json:"resolved,omitempty"`
}

// ReportFilter holds optional list filters
type ReportFilter struct {
	Type       *string
	Resolved   *bool
	ReporterID *int64
	Limit      int
	Offset     int
}

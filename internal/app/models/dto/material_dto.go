package dto

// CreateMaterialRequest represents a material registration payload
type CreateMaterialRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description,omitempty"`
	Type        string  `json:"type" binding:"required"`
	Condition   string  `json:"condition" binding:"required"`
	Category    *string `json:"category,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Objective   *string `json:"objective,omitempty"`
	Location    *string `json:"location,omitempty"`
	OwnerID     int64   `json:"ownerId" binding:"required"`
}

// UpdateMaterialRequest is a partial update; nil fields are left untouched
type UpdateMaterialRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Type        *string `json:"type,omitempty"`
	Condition   *string `json:"condition,omitempty"`
	Category    *string `json:"category,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Objective   *string `json:"objective,omitempty"`
	Location    *string `json:"location,omitempty"`
}

// MaterialFilter holds optional list filters
type MaterialFilter struct {
	Type      *string
	Category  *string
	Objective *string
	Available *bool
	OwnerID   *int64
	Location  *string
	Search    *string
	Limit     int
	Offset    int
}

// SetAvailabilityRequest toggles a material's availability flag
type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

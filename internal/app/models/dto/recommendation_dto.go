package dto

// CreateRecommendationRequest represents a recommendation creation payload
type CreateRecommendationRequest struct {
	Reason     string `json:"reason" binding:"required"`
	UserID     int64  `json:"userId" binding:"required"`
	MaterialID int64  `json:"materialId" binding:"required"`
}

// UpdateRecommendationRequest is a partial update; nil fields are left untouched
type UpdateRecommendationRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// RecommendationFilter holds optional list filters
type RecommendationFilter struct {
	UserID     *int64
	MaterialID *int64
	Limit      int
	Offset     int
}

// GenerateRecommendationsResponse reports the generation outcome
type GenerateRecommendationsResponse struct {
	Total   int     `json:"total"`
	IDs     []int64 `json:"ids"`
	Message string  `json:"message"`
}

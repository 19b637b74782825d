package dto

// CreateTradeRequest represents a trade request payload
type CreateTradeRequest struct {
	MaterialID  int64   `json:"materialId" binding:"required"`
	RequesterID int64   `json:"requesterId" binding:"required"`
	DonorID     int64   `json:"donorId" binding:"required"`
	Notes       *string `json:"notes,omitempty"`
}

// UpdateTradeRequest is a partial update; nil fields are left untouched
type UpdateTradeRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// TradeFilter holds optional list filters
type TradeFilter struct {
	RequesterID *int64
	DonorID     *int64
	MaterialID  *int64
	Completed   *bool
	Limit       int
	Offset      int
}

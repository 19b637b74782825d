package dto

import "time"

// APIResponse is the standard envelope returned by every endpoint
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewSuccessResponse wraps payload data in the standard envelope
func NewSuccessResponse(data interface{}) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// SuccessResponse represents a standard success message for mutating endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// IDResponse is returned by create endpoints
type IDResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message,omitempty"`
}

// CountResponse is returned by bulk operations that report affected rows
type CountResponse struct {
	Total   int64  `json:"total"`
	Message string `json:"message,omitempty"`
}

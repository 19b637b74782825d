package dto

import "time"

// RegisterRequest represents a user registration payload
type RegisterRequest struct {
	FullName        string  `json:"fullName" binding:"required"`
	Email           string  `json:"email" binding:"required,email"`
	Password        string  `json:"password" binding:"required,min=6"`
	Phone           *string `json:"phone,omitempty"`
	ProfilePhotoURL *string `json:"profilePhotoUrl,omitempty"`
}

// LoginRequest represents a login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
	UserID    int64  `json:"userId"`
	FullName  string `json:"fullName"`
}

// UserResponse represents user display data
type UserResponse struct {
	ID              int64     `json:"id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	Phone           *string   `json:"phone,omitempty"`
	ProfilePhotoURL *string   `json:"profilePhotoUrl,omitempty"`
	Role            string    `json:"role"`
	IsActive        bool      `json:"isActive"`
	RankingPoints   int       `json:"rankingPoints"`
	CreatedAt       time.Time `json:"createdAt"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched
type UpdateUserRequest struct {
	FullName        *string `json:"fullName,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	ProfilePhotoURL *string `json:"profilePhotoUrl,omitempty"`
}

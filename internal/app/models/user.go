package models

import (
	"time"
)

// Role defines the user role values stored in the 'role' column
type Role string

const (
	RoleOrdinary Role = "ORDINARY"
	RoleAdmin    Role = "ADMIN"
)

// User defines the user model based on the 'users' table
type User struct {
	ID              int64     `json:"id" db:"id"`
	FullName        string    `json:"fullName" db:"full_name"`
	Email           string    `json:"email" db:"email"`
	Password        string    `json:"-" db:"password"` // hashed, excluded from JSON
	Phone           *string   `json:"phone,omitempty" db:"phone"`
	ProfilePhotoURL *string   `json:"profilePhotoUrl,omitempty" db:"profile_photo_url"`
	Role            Role      `json:"role" db:"role"`
	IsActive        bool      `json:"isActive" db:"is_active"`
	RankingPoints   int       `json:"rankingPoints" db:"ranking_points"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                  string     `json:"id" db:"id" example:"5d7a514b-5d2c-12c7-449b-e042a1b2c3d4"`
	Name                string     `json:"name" db:"name" example:"John Doe"`
	Email               string     `json:"email" db:"email" example:"john@gmail.com"`
	Role                Role       `json:"role" db:"role" example:"publisher"`
	Password            string     `json:"-" db:"password"`
	ResetPasswordToken  *string    `json:"-" db:"reset_password_token"`
	ResetPasswordExpire *time.Time `json:"-" db:"reset_password_expire"`
	CreatedAt           time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
}

// IsAdmin reports whether the user bypasses ownership checks
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

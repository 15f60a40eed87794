package dto

import "github.com/yigit/devcamper/internal/app/models"

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name     string      `json:"name" binding:"required,max=100"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role" binding:"omitempty,oneof=user publisher"`
}

// LoginRequest represents login credentials. Presence is checked by the service
// so a missing field yields the login specific message.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateDetailsRequest updates the authenticated user's name and email
type UpdateDetailsRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// UpdatePasswordRequest changes the authenticated user's password
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

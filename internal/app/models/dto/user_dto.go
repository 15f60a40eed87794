package dto

import "github.com/yigit/devcamper/internal/app/models"

// CreateUserRequest is used by admins to create any kind of user
type CreateUserRequest struct {
	Name     string      `json:"name" binding:"required,max=100"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role" binding:"omitempty,role"`
}

// UpdateUserRequest is a partial admin update; nil fields are left unchanged
type UpdateUserRequest struct {
	Name     *string      `json:"name" binding:"omitempty,min=1,max=100"`
	Email    *string      `json:"email" binding:"omitempty,email"`
	Role     *models.Role `json:"role" binding:"omitempty,role"`
	Password *string      `json:"password" binding:"omitempty,min=6"`
}

package dto

import "github.com/yigit/devcamper/internal/app/models"

// CreateBootcampRequest represents a new bootcamp
type CreateBootcampRequest struct {
	Name          string          `json:"name" binding:"required,max=50"`
	Description   string          `json:"description" binding:"required,max=500"`
	Website       string          `json:"website" binding:"omitempty,url"`
	Phone         string          `json:"phone" binding:"omitempty,phone"`
	Email         string          `json:"email" binding:"omitempty,email"`
	Address       string          `json:"address" binding:"required"`
	Careers       []models.Career `json:"careers" binding:"required,min=1,dive,career"`
	Housing       *bool           `json:"housing"`
	JobAssistance *bool           `json:"jobAssistance"`
	JobGuarantee  *bool           `json:"jobGuarantee"`
	AcceptGi      *bool           `json:"acceptGi"`
}

// UpdateBootcampRequest is a partial update; nil fields are left unchanged
type UpdateBootcampRequest struct {
	Name          *string         `json:"name" binding:"omitempty,min=1,max=50"`
	Description   *string         `json:"description" binding:"omitempty,min=1,max=500"`
	Website       *string         `json:"website" binding:"omitempty,url"`
	Phone         *string         `json:"phone" binding:"omitempty,phone"`
	Email         *string         `json:"email" binding:"omitempty,email"`
	Address       *string         `json:"address" binding:"omitempty,min=1"`
	Careers       []models.Career `json:"careers" binding:"omitempty,min=1,dive,career"`
	Housing       *bool           `json:"housing"`
	JobAssistance *bool           `json:"jobAssistance"`
	JobGuarantee  *bool           `json:"jobGuarantee"`
	AcceptGi      *bool           `json:"acceptGi"`
}

// PhotoResponse is returned after a bootcamp photo upload
type PhotoResponse struct {
	Success bool   `json:"success" example:"true"`
	Data    string `json:"data" example:"photo_5d713995b721c3bb38c1f5d0.jpg"`
}

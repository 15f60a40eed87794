package dto

import "github.com/yigit/devcamper/internal/app/models"

// CreateCourseRequest represents a course added to a bootcamp
type CreateCourseRequest struct {
	Title                string       `json:"title" binding:"required,max=100"`
	Description          string       `json:"description" binding:"required"`
	Weeks                string       `json:"weeks" binding:"required"`
	Tuition              *float64     `json:"tuition" binding:"required,gte=0"`
	MinimumSkill         models.Skill `json:"minimumSkill" binding:"required,skill"`
	ScholarshipAvailable bool         `json:"scholarshipAvailable"`
}

// UpdateCourseRequest is a partial update; nil fields are left unchanged
type UpdateCourseRequest struct {
	Title                *string       `json:"title" binding:"omitempty,min=1,max=100"`
	Description          *string       `json:"description" binding:"omitempty,min=1"`
	Weeks                *string       `json:"weeks" binding:"omitempty,min=1"`
	Tuition              *float64      `json:"tuition" binding:"omitempty,gte=0"`
	MinimumSkill         *models.Skill `json:"minimumSkill" binding:"omitempty,skill"`
	ScholarshipAvailable *bool         `json:"scholarshipAvailable"`
}

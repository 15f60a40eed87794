package models

import (
	"time"
)

// Course defines the course model based on the 'courses' table
type Course struct {
	ID                   string    `json:"id" db:"id"`
	Title                string    `json:"title" db:"title" example:"Front End Web Development"`
	Description          string    `json:"description" db:"description"`
	Weeks                string    `json:"weeks" db:"weeks" example:"8"`
	Tuition              float64   `json:"tuition" db:"tuition" example:"8000"`
	MinimumSkill         Skill     `json:"minimumSkill" db:"minimum_skill" example:"beginner"`
	ScholarshipAvailable bool      `json:"scholarshipAvailable" db:"scholarship_available"`
	BootcampID           string    `json:"bootcamp" db:"bootcamp_id"`
	UserID               string    `json:"user" db:"user_id"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at"`
}

// OwnedBy reports whether userID owns the course
func (c *Course) OwnedBy(userID string) bool {
	return c != nil && c.UserID == userID
}

package models

import (
	"time"
)

// DefaultPhoto is stored for bootcamps that have not uploaded a photo
const DefaultPhoto = "no-photo.jpg"

// Location is the geocoded position of a bootcamp. Coordinates are [longitude, latitude].
type Location struct {
	Type             string     `json:"type" example:"Point"`
	Coordinates      [2]float64 `json:"coordinates"`
	FormattedAddress string     `json:"formattedAddress,omitempty"`
	Street           string     `json:"street,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	Zipcode          string     `json:"zipcode,omitempty"`
	Country          string     `json:"country,omitempty"`
}

// Longitude of the location
func (l Location) Longitude() float64 { return l.Coordinates[0] }

// Latitude of the location
func (l Location) Latitude() float64 { return l.Coordinates[1] }

// Bootcamp defines the bootcamp model based on the 'bootcamps' table
type Bootcamp struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name" example:"Devworks Bootcamp"`
	Slug          string    `json:"slug" db:"slug" example:"devworks-bootcamp"`
	Description   string    `json:"description" db:"description"`
	Website       string    `json:"website,omitempty" db:"website"`
	Phone         string    `json:"phone,omitempty" db:"phone"`
	Email         string    `json:"email,omitempty" db:"email"`
	Address       string    `json:"address,omitempty" db:"address"`
	Location      *Location `json:"location,omitempty"`
	Careers       []Career  `json:"careers" db:"careers"`
	AverageRating *float64  `json:"averageRating,omitempty" db:"average_rating"`
	AverageCost   *float64  `json:"averageCost,omitempty" db:"average_cost"`
	Photo         string    `json:"photo" db:"photo"`
	Housing       bool      `json:"housing" db:"housing"`
	JobAssistance bool      `json:"jobAssistance" db:"job_assistance"`
	JobGuarantee  bool      `json:"jobGuarantee" db:"job_guarantee"`
	AcceptGi      bool      `json:"acceptGi" db:"accept_gi"`
	UserID        string    `json:"user" db:"user_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// OwnedBy reports whether userID owns the bootcamp
func (b *Bootcamp) OwnedBy(userID string) bool {
	return b != nil && b.UserID == userID
}

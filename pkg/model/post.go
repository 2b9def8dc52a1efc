package model

import (
	"time"

	"gorm.io/gorm"
)

// Post is a social content fragment attached to a venue. Check-in posts
// carry the name and style of the beer that was checked in; plain posts
// leave both nil.
type Post struct {
	gorm.Model
	Slug      string `gorm:"uniqueIndex"`
	VenueID   uint
	Platform  string
	Content   string
	PostedAt  time.Time
	PostURL   *string
	ImageURL  *string
	BeerName  *string
	BeerStyle *string

	Venue Venue `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

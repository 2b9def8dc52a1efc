package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VenueType string

const (
	VenueTypeBrewery VenueType = "brewery"
	VenueTypeBar     VenueType = "bar"
)

type Venue struct {
	gorm.Model
	UUID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()"`
	Slug            string    `gorm:"uniqueIndex"`
	Name            string
	Type            VenueType
	Address         string
	Suburb          string
	Latitude        float64
	Longitude       float64
	InstagramHandle *string
	ExternalID      *uint64
	ExternalSource  *string
	Tags            []Tag `gorm:"many2many:venue_tags;"`
}

type Tag struct {
	gorm.Model
	Tag string
}

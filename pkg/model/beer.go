package model

import (
	"time"

	"gorm.io/gorm"
)

type Beer struct {
	gorm.Model
	Slug        string `gorm:"uniqueIndex"`
	Name        string `gorm:"uniqueIndex:idx_beer_unique"`
	VenueID     uint   `gorm:"uniqueIndex:idx_beer_unique"`
	Style       string
	Description string
	ABV         *float64
	IBU         *uint64
	Rating      *float64
	LabelURL    *string
	ReleasedAt  time.Time
	Photos      []BeerPhoto

	Venue Venue `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

type BeerPhoto struct {
	gorm.Model
	BeerID uint
	URL    string
}

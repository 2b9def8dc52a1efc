package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"droscher.com/FreshTaps/pkg/model"
)

var ErrVenueNotFound = errors.New("venue not found")

// GetVenues loads every venue in insertion order. The catalog store turns
// the result into an immutable snapshot.
func (r *Repository) GetVenues(ctx context.Context) ([]model.Venue, error) {
	var venues []model.Venue

	result := r.DB.WithContext(ctx).Preload("Tags").Order("id").Find(&venues)
	if result.Error != nil {
		r.Logger.Error("error loading venues", zap.Error(result.Error))

		return nil, result.Error
	}

	return venues, nil
}

func (r *Repository) GetBeers(ctx context.Context) ([]model.Beer, error) {
	var beers []model.Beer

	result := r.DB.WithContext(ctx).Preload("Photos").Order("id").Find(&beers)
	if result.Error != nil {
		r.Logger.Error("error loading beers", zap.Error(result.Error))

		return nil, result.Error
	}

	return beers, nil
}

func (r *Repository) GetPosts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post

	result := r.DB.WithContext(ctx).Order("id").Find(&posts)
	if result.Error != nil {
		r.Logger.Error("error loading posts", zap.Error(result.Error))

		return nil, result.Error
	}

	return posts, nil
}

// AddVenue upserts a venue by slug. Used by the admin endpoint and the
// seed command; ingestion writes through the same path.
func (r *Repository) AddVenue(ctx context.Context, venue model.Venue) (*model.Venue, error) {
	if venue.UUID == uuid.Nil {
		venue.UUID = uuid.New()
	}

	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		UpdateAll: true,
	}).Create(&venue)

	if result.Error != nil {
		return nil, result.Error
	}

	return &venue, nil
}

func (r *Repository) FindVenueBySlug(ctx context.Context, slug string) (*model.Venue, error) {
	venue := &model.Venue{}

	result := r.DB.WithContext(ctx).Model(&venue).
		Where(`slug = ?`, slug).
		First(&venue)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}

		return nil, result.Error
	}

	return venue, nil
}

// AddBeer upserts a beer on its (name, venue) identity.
func (r *Repository) AddBeer(ctx context.Context, beer model.Beer) (*model.Beer, error) {
	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "venue_id"}},
		UpdateAll: true,
	}).Create(&beer)

	if result.Error != nil {
		return nil, result.Error
	}

	return &beer, nil
}

func (r *Repository) AddPost(ctx context.Context, post model.Post) (*model.Post, error) {
	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&post)

	if result.Error != nil {
		return nil, result.Error
	}

	return &post, nil
}

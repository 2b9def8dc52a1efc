package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"droscher.com/FreshTaps/configs"
	"droscher.com/FreshTaps/pkg/model"
	"droscher.com/FreshTaps/pkg/repository"
)

type SeedCmd struct {
	ConfigFile string `default:".FreshTaps.toml" help:"Path to config file" short:"c"`
	File       string `arg:""                    help:"Catalog JSON file"   type:"existingfile"`
}

type seedVenue struct {
	Slug            string   `json:"id"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Address         string   `json:"address"`
	Suburb          string   `json:"suburb"`
	Latitude        float64  `json:"lat"`
	Longitude       float64  `json:"lng"`
	InstagramHandle *string  `json:"instagram_handle"`
	Tags            []string `json:"tags"`
}

type seedBeer struct {
	Slug        string    `json:"id"`
	Name        string    `json:"name"`
	Venue       string    `json:"venue_id"`
	Style       string    `json:"style"`
	Description string    `json:"description"`
	ABV         *float64  `json:"abv"`
	IBU         *uint64   `json:"ibu"`
	Rating      *float64  `json:"rating"`
	LabelURL    *string   `json:"label_url"`
	ReleasedAt  time.Time `json:"release_date"`
}

type seedPost struct {
	Slug      string    `json:"id"`
	Venue     string    `json:"venue_id"`
	Platform  string    `json:"platform"`
	Content   string    `json:"content"`
	PostedAt  time.Time `json:"posted_at"`
	PostURL   *string   `json:"post_url"`
	ImageURL  *string   `json:"image_url"`
	BeerName  *string   `json:"beer_name"`
	BeerStyle *string   `json:"beer_style"`
}

type seedCatalog struct {
	Venues []seedVenue `json:"venues"`
	Beers  []seedBeer  `json:"beers"`
	Posts  []seedPost  `json:"posts"`
}

// Run loads a catalog JSON file and upserts its venues, beers and posts.
// Beers and posts reference venues by slug, so venues go in first.
func (s *SeedCmd) Run(_ *Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(s.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	data, err := os.ReadFile(s.File)
	if err != nil {
		return err
	}

	var seed seedCatalog
	if err = json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("error parsing catalog file %s: %w", s.File, err)
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return err
	}
	defer repo.Close()

	ctx := context.Background()
	venueIDs := make(map[string]uint, len(seed.Venues))

	for _, venue := range seed.Venues {
		tags := make([]model.Tag, 0, len(venue.Tags))
		for _, tag := range venue.Tags {
			tags = append(tags, model.Tag{Tag: tag})
		}

		created, err := repo.AddVenue(ctx, model.Venue{
			Slug:            venue.Slug,
			Name:            venue.Name,
			Type:            model.VenueType(venue.Type),
			Address:         venue.Address,
			Suburb:          venue.Suburb,
			Latitude:        venue.Latitude,
			Longitude:       venue.Longitude,
			InstagramHandle: venue.InstagramHandle,
			Tags:            tags,
		})
		if err != nil {
			return fmt.Errorf("error adding venue %s: %w", venue.Slug, err)
		}

		venueIDs[venue.Slug] = created.ID
	}

	for _, beer := range seed.Beers {
		venueID, found := venueIDs[beer.Venue]
		if !found {
			logger.Warn("skipping beer with unknown venue", zap.String("beer", beer.Slug), zap.String("venue", beer.Venue))

			continue
		}

		_, err = repo.AddBeer(ctx, model.Beer{
			Slug:        beer.Slug,
			Name:        beer.Name,
			VenueID:     venueID,
			Style:       beer.Style,
			Description: beer.Description,
			ABV:         beer.ABV,
			IBU:         beer.IBU,
			Rating:      beer.Rating,
			LabelURL:    beer.LabelURL,
			ReleasedAt:  beer.ReleasedAt,
		})
		if err != nil {
			return fmt.Errorf("error adding beer %s: %w", beer.Slug, err)
		}
	}

	for _, post := range seed.Posts {
		venueID, found := venueIDs[post.Venue]
		if !found {
			logger.Warn("skipping post with unknown venue", zap.String("post", post.Slug), zap.String("venue", post.Venue))

			continue
		}

		_, err = repo.AddPost(ctx, model.Post{
			Slug:      post.Slug,
			VenueID:   venueID,
			Platform:  post.Platform,
			Content:   post.Content,
			PostedAt:  post.PostedAt,
			PostURL:   post.PostURL,
			ImageURL:  post.ImageURL,
			BeerName:  post.BeerName,
			BeerStyle: post.BeerStyle,
		})
		if err != nil {
			return fmt.Errorf("error adding post %s: %w", post.Slug, err)
		}
	}

	logger.Info("catalog seeded",
		zap.Int("venues", len(seed.Venues)),
		zap.Int("beers", len(seed.Beers)),
		zap.Int("posts", len(seed.Posts)))

	return nil
}

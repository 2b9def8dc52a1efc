package catalog

import (
	"time"

	"droscher.com/FreshTaps/pkg/model"
)

// Snapshot is an immutable point-in-time view of the venue/beer/post
// catalog. All engine calls operate on one snapshot for their whole
// duration; refreshes build a new snapshot and swap it in via Store.
type Snapshot struct {
	venues      []model.Venue
	beers       []model.Beer
	posts       []model.Post
	lastUpdated time.Time

	venueBySlug  map[string]int
	venueByID    map[uint]int
	beersByVenue map[uint][]int
	postsByVenue map[uint][]int
}

func NewSnapshot(venues []model.Venue, beers []model.Beer, posts []model.Post, lastUpdated time.Time) *Snapshot {
	snap := &Snapshot{
		venues:       venues,
		beers:        beers,
		posts:        posts,
		lastUpdated:  lastUpdated,
		venueBySlug:  make(map[string]int, len(venues)),
		venueByID:    make(map[uint]int, len(venues)),
		beersByVenue: make(map[uint][]int, len(venues)),
		postsByVenue: make(map[uint][]int, len(venues)),
	}

	for index := range venues {
		snap.venueBySlug[venues[index].Slug] = index
		snap.venueByID[venues[index].ID] = index
	}

	for index := range beers {
		venueID := beers[index].VenueID
		snap.beersByVenue[venueID] = append(snap.beersByVenue[venueID], index)
	}

	for index := range posts {
		venueID := posts[index].VenueID
		snap.postsByVenue[venueID] = append(snap.postsByVenue[venueID], index)
	}

	return snap
}

func (s *Snapshot) LastUpdated() time.Time {
	return s.lastUpdated
}

// Venues returns all venues in catalog order.
func (s *Snapshot) Venues() []model.Venue {
	return s.venues
}

// Beers returns all beers in catalog order.
func (s *Snapshot) Beers() []model.Beer {
	return s.beers
}

// Posts returns all posts in catalog order.
func (s *Snapshot) Posts() []model.Post {
	return s.posts
}

// VenuesBySuburb returns venues matching the suburb exactly, or all venues
// when no suburb is given. The match is case-sensitive on the stored string;
// an unknown suburb yields an empty list, not an error.
func (s *Snapshot) VenuesBySuburb(suburb string) []model.Venue {
	if suburb == "" {
		return s.venues
	}

	matches := make([]model.Venue, 0)

	for index := range s.venues {
		if s.venues[index].Suburb == suburb {
			matches = append(matches, s.venues[index])
		}
	}

	return matches
}

// VenuesByType returns venues of the given type, or all venues when the
// type is empty.
func (s *Snapshot) VenuesByType(venueType model.VenueType) []model.Venue {
	if venueType == "" {
		return s.venues
	}

	matches := make([]model.Venue, 0)

	for index := range s.venues {
		if s.venues[index].Type == venueType {
			matches = append(matches, s.venues[index])
		}
	}

	return matches
}

// BeersReleasedSince returns beers whose release falls within the lookback
// window, in catalog insertion order.
func (s *Snapshot) BeersReleasedSince(now time.Time, days int) []model.Beer {
	matches := make([]model.Beer, 0)

	for index := range s.beers {
		if IsNew(s.beers[index].ReleasedAt, now, days) {
			matches = append(matches, s.beers[index])
		}
	}

	return matches
}

// VenueBySlug looks a venue up by its public identifier.
func (s *Snapshot) VenueBySlug(slug string) (model.Venue, bool) {
	index, found := s.venueBySlug[slug]
	if !found {
		return model.Venue{}, false
	}

	return s.venues[index], true
}

// VenueByID looks a venue up by its internal key. Beers referencing an
// unknown venue are expected to be skipped by callers.
func (s *Snapshot) VenueByID(venueID uint) (model.Venue, bool) {
	index, found := s.venueByID[venueID]
	if !found {
		return model.Venue{}, false
	}

	return s.venues[index], true
}

// BeersForVenue returns the venue's beers in catalog order.
func (s *Snapshot) BeersForVenue(venueID uint) []model.Beer {
	indexes := s.beersByVenue[venueID]
	beers := make([]model.Beer, 0, len(indexes))

	for _, index := range indexes {
		beers = append(beers, s.beers[index])
	}

	return beers
}

// PostsForVenue returns the venue's posts within the lookback window, in
// catalog order.
func (s *Snapshot) PostsForVenue(venueID uint, now time.Time, days int) []model.Post {
	window := time.Duration(NormalizeDays(days)) * hoursPerDay * time.Hour
	cutoff := now.Add(-window)
	posts := make([]model.Post, 0)

	for _, index := range s.postsByVenue[venueID] {
		if !s.posts[index].PostedAt.Before(cutoff) {
			posts = append(posts, s.posts[index])
		}
	}

	return posts
}

// Stats summarises the catalog for the stats endpoint.
type Stats struct {
	TotalVenues           int
	TotalBeers            int
	NewReleases           int
	VenuesWithNewReleases int
	Breweries             int
	Bars                  int
	Suburbs               []string
	LastUpdated           time.Time
}

func (s *Snapshot) Stats(now time.Time, days int) Stats {
	stats := Stats{
		TotalVenues: len(s.venues),
		TotalBeers:  len(s.beers),
		LastUpdated: s.lastUpdated,
	}

	seen := make(map[string]bool)

	for index := range s.venues {
		venue := s.venues[index]

		switch venue.Type {
		case model.VenueTypeBrewery:
			stats.Breweries++
		case model.VenueTypeBar:
			stats.Bars++
		}

		if !seen[venue.Suburb] {
			seen[venue.Suburb] = true
			stats.Suburbs = append(stats.Suburbs, venue.Suburb)
		}
	}

	venuesWithNew := make(map[uint]bool)

	for index := range s.beers {
		if IsNew(s.beers[index].ReleasedAt, now, days) {
			stats.NewReleases++
			venuesWithNew[s.beers[index].VenueID] = true
		}
	}

	stats.VenuesWithNewReleases = len(venuesWithNew)

	return stats
}

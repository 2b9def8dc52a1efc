package recommend

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"droscher.com/FreshTaps/pkg/catalog"
	"droscher.com/FreshTaps/pkg/geo"
	"droscher.com/FreshTaps/pkg/model"
)

const DefaultMaxPosts = 5

// Params describes one recommendation request. Now is the reference time
// every freshness decision is made against; results are deterministic for a
// fixed (snapshot, Params) pair.
type Params struct {
	Now         time.Time
	Suburb      string
	Days        int
	Location    *geo.Point
	LikedStyles []string
	MaxPosts    int
}

// Recommendation is derived per request and never persisted.
type Recommendation struct {
	Venue         model.Venue
	NewBeers      []model.Beer
	RelevantPosts []model.Post
	Reason        string
	StyleMatch    bool
	DistanceKm    *float64
}

type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Recommend selects venues with at least one release inside the lookback
// window, scores them against the caller's style and location signals, and
// returns them in ranked order. Empty results are valid; nothing here
// errors on a quiet week.
func (e *Engine) Recommend(snap *catalog.Snapshot, params Params) []Recommendation {
	days := catalog.NormalizeDays(params.Days)
	maxPosts := params.MaxPosts

	if maxPosts <= 0 {
		maxPosts = DefaultMaxPosts
	}

	candidates := snap.VenuesBySuburb(params.Suburb)
	recommendations := make([]Recommendation, 0, len(candidates))

	for index := range candidates {
		venue := candidates[index]

		newBeers := freshBeers(snap.BeersForVenue(venue.ID), params.Now, days)
		if len(newBeers) == 0 {
			continue
		}

		orderBeers(newBeers, params.LikedStyles)

		posts := snap.PostsForVenue(venue.ID, params.Now, days)
		if len(posts) > maxPosts {
			posts = posts[:maxPosts]
		}

		rec := Recommendation{
			Venue:         venue,
			NewBeers:      newBeers,
			RelevantPosts: posts,
			StyleMatch:    anyStyleMatch(newBeers, params.LikedStyles),
		}
		rec.Reason = reason(rec)

		if params.Location != nil {
			distance := geo.Distance(*params.Location, geo.Point{Latitude: venue.Latitude, Longitude: venue.Longitude})
			rec.DistanceKm = &distance
		}

		recommendations = append(recommendations, rec)
	}

	rank(recommendations)

	e.logger.Debug("built recommendations",
		zap.Int("candidates", len(candidates)),
		zap.Int("recommended", len(recommendations)),
		zap.String("suburb", params.Suburb),
		zap.Int("days", days))

	return recommendations
}

func freshBeers(beers []model.Beer, now time.Time, days int) []model.Beer {
	fresh := make([]model.Beer, 0, len(beers))

	for index := range beers {
		if catalog.IsNew(beers[index].ReleasedAt, now, days) {
			fresh = append(fresh, beers[index])
		}
	}

	return fresh
}

// orderBeers puts style-matching beers ahead of the rest, newest first
// within each group, name as the final tie-break.
func orderBeers(beers []model.Beer, likedStyles []string) {
	sort.SliceStable(beers, func(i, j int) bool {
		iMatch := MatchesAnyStyle(beers[i].Style, likedStyles)
		jMatch := MatchesAnyStyle(beers[j].Style, likedStyles)

		if iMatch != jMatch {
			return iMatch
		}

		if !beers[i].ReleasedAt.Equal(beers[j].ReleasedAt) {
			return beers[i].ReleasedAt.After(beers[j].ReleasedAt)
		}

		return beers[i].Name < beers[j].Name
	})
}

func anyStyleMatch(beers []model.Beer, likedStyles []string) bool {
	for index := range beers {
		if MatchesAnyStyle(beers[index].Style, likedStyles) {
			return true
		}
	}

	return false
}

func reason(rec Recommendation) string {
	if rec.StyleMatch {
		return fmt.Sprintf("New %s releases matching your taste", rec.NewBeers[0].Style)
	}

	if len(rec.NewBeers) == 1 {
		return "1 new release this week"
	}

	return fmt.Sprintf("%d new releases this week", len(rec.NewBeers))
}

// rank orders recommendations per the composite contract: style-match tier
// first, then distance when known, then most recent release, with venue
// name breaking remaining ties.
func rank(recommendations []Recommendation) {
	sort.SliceStable(recommendations, func(i, j int) bool {
		a, b := recommendations[i], recommendations[j]

		if a.StyleMatch != b.StyleMatch {
			return a.StyleMatch
		}

		if a.DistanceKm != nil && b.DistanceKm != nil && *a.DistanceKm != *b.DistanceKm {
			return *a.DistanceKm < *b.DistanceKm
		}

		aLatest := latestRelease(a.NewBeers)
		bLatest := latestRelease(b.NewBeers)

		if !aLatest.Equal(bLatest) {
			return aLatest.After(bLatest)
		}

		return a.Venue.Name < b.Venue.Name
	})
}

func latestRelease(beers []model.Beer) time.Time {
	var latest time.Time

	for index := range beers {
		if beers[index].ReleasedAt.After(latest) {
			latest = beers[index].ReleasedAt
		}
	}

	return latest
}

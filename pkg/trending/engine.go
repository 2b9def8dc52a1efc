package trending

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"droscher.com/FreshTaps/pkg/catalog"
	"droscher.com/FreshTaps/pkg/model"
	"droscher.com/FreshTaps/pkg/recommend"
)

const (
	DefaultTopBeers  = 10
	DefaultTopVenues = 5
	DefaultTopStyles = 5

	ratingWeight  = 10
	mentionWeight = 3
)

// Entry is one (name, count) row of a trending board.
type Entry struct {
	Name  string
	Count int
	Slug  string
}

// Board is the trending snapshot: parallel rankings of beers, venues and
// styles/suburbs aggregated from check-in posts over a window.
type Board struct {
	Beers         []Entry
	Venues        []Entry
	Styles        []Entry
	Suburbs       []Entry
	TotalCheckins int
	PeriodDays    int
}

// Limits caps each board; zero values fall back to the observed defaults
// (top 10 beers, top 5 venues and styles/suburbs).
type Limits struct {
	Beers  int
	Venues int
	Styles int
}

type Engine struct {
	logger *zap.Logger
	limits Limits
}

func NewEngine(logger *zap.Logger, limits Limits) *Engine {
	if limits.Beers <= 0 {
		limits.Beers = DefaultTopBeers
	}

	if limits.Venues <= 0 {
		limits.Venues = DefaultTopVenues
	}

	if limits.Styles <= 0 {
		limits.Styles = DefaultTopStyles
	}

	return &Engine{logger: logger, limits: limits}
}

// NewReleases returns beers released inside the window, most recent first,
// name ascending on equal timestamps.
func (e *Engine) NewReleases(snap *catalog.Snapshot, now time.Time, days int) []model.Beer {
	beers := snap.BeersReleasedSince(now, days)

	sort.SliceStable(beers, func(i, j int) bool {
		if !beers[i].ReleasedAt.Equal(beers[j].ReleasedAt) {
			return beers[i].ReleasedAt.After(beers[j].ReleasedAt)
		}

		return beers[i].Name < beers[j].Name
	})

	return beers
}

// Trending aggregates check-in counts per beer, venue, style and suburb
// over the window. Entities with zero activity are omitted entirely.
func (e *Engine) Trending(snap *catalog.Snapshot, now time.Time, days int) Board {
	window := time.Duration(catalog.NormalizeDays(days)) * 24 * time.Hour
	cutoff := now.Add(-window)

	beerCounts := make(map[string]int)
	venueCounts := make(map[uint]int)
	styleCounts := make(map[string]int)
	suburbCounts := make(map[string]int)
	checkins := 0

	posts := snap.Posts()

	for index := range posts {
		post := posts[index]
		if post.PostedAt.Before(cutoff) {
			continue
		}

		venue, found := snap.VenueByID(post.VenueID)
		if !found {
			// Post references a venue absent from the snapshot; skip it
			// rather than abort the whole aggregation pass.
			e.logger.Warn("post references unknown venue", zap.Uint("venue_id", post.VenueID), zap.String("post", post.Slug))

			continue
		}

		checkins++
		venueCounts[post.VenueID]++
		suburbCounts[venue.Suburb]++

		if post.BeerName != nil && *post.BeerName != "" {
			beerCounts[cleanBeerName(*post.BeerName)]++
		}

		if post.BeerStyle != nil && *post.BeerStyle != "" {
			styleCounts[recommend.SimplifyStyle(*post.BeerStyle)]++
		}
	}

	venueEntries := make([]Entry, 0, len(venueCounts))

	for venueID, count := range venueCounts {
		venue, _ := snap.VenueByID(venueID)
		venueEntries = append(venueEntries, Entry{Name: venue.Name, Count: count, Slug: venue.Slug})
	}

	return Board{
		Beers:         rankEntries(countEntries(beerCounts), e.limits.Beers),
		Venues:        rankEntries(venueEntries, e.limits.Venues),
		Styles:        rankEntries(countEntries(styleCounts), e.limits.Styles),
		Suburbs:       rankEntries(countEntries(suburbCounts), e.limits.Styles),
		TotalCheckins: checkins,
		PeriodDays:    catalog.NormalizeDays(days),
	}
}

// TopN selects the n highest-scoring items. Selection is stable: items with
// equal scores keep their catalog order.
func TopN[T any](items []T, n int, score func(T) float64) []T {
	ranked := make([]T, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})

	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	return ranked
}

// PopularityScore combines the external aggregate rating with local
// check-in mentions. A missing rating contributes nothing; it is never
// substituted with an invented value.
func PopularityScore(beer model.Beer, mentions int) float64 {
	score := float64(mentions * mentionWeight)

	if beer.Rating != nil {
		score += *beer.Rating * ratingWeight
	}

	return score
}

// TopRated returns the highest-scoring beers in the catalog by
// PopularityScore over mentions in the window.
func (e *Engine) TopRated(snap *catalog.Snapshot, now time.Time, days int) []model.Beer {
	mentions := e.mentionCounts(snap, now, days)

	return TopN(snap.Beers(), e.limits.Beers, func(beer model.Beer) float64 {
		return PopularityScore(beer, mentions[strings.ToLower(cleanBeerName(beer.Name))])
	})
}

func (e *Engine) mentionCounts(snap *catalog.Snapshot, now time.Time, days int) map[string]int {
	window := time.Duration(catalog.NormalizeDays(days)) * 24 * time.Hour
	cutoff := now.Add(-window)
	mentions := make(map[string]int)

	posts := snap.Posts()

	for index := range posts {
		post := posts[index]
		if post.PostedAt.Before(cutoff) || post.BeerName == nil || *post.BeerName == "" {
			continue
		}

		mentions[strings.ToLower(cleanBeerName(*post.BeerName))]++
	}

	return mentions
}

// cleanBeerName strips the leading article some check-in feeds prepend.
func cleanBeerName(name string) string {
	lowered := strings.ToLower(name)

	switch {
	case strings.HasPrefix(lowered, "a "):
		return name[2:]
	case strings.HasPrefix(lowered, "an "):
		return name[3:]
	default:
		return name
	}
}

func countEntries(counts map[string]int) []Entry {
	entries := make([]Entry, 0, len(counts))

	for name, count := range counts {
		entries = append(entries, Entry{Name: name, Count: count})
	}

	return entries
}

// rankEntries orders by count descending, name ascending on ties, and
// truncates to the limit. Zero counts never appear because only observed
// activity is counted.
func rankEntries(entries []Entry, limit int) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}

		return entries[i].Name < entries[j].Name
	})

	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries
}

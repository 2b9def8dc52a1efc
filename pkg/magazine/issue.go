package magazine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"droscher.com/FreshTaps/pkg/catalog"
	"droscher.com/FreshTaps/pkg/model"
	"droscher.com/FreshTaps/pkg/trending"
)

// UnknownStat is the display value for an absent ABV or IBU. A missing
// number is shown as missing, never replaced with a plausible-looking one.
const UnknownStat = "unknown"

const (
	coverFeatures  = 3
	spotlightPosts = 5
)

// Issue is the weekly magazine document. It carries ranked data lists
// only; page layout, imagery and copywriting belong to the rendering layer.
type Issue struct {
	Number      int
	Year        int
	GeneratedAt time.Time
	Cover       Cover
	FreshOnTap  trending.Board
	NewArrivals []Arrival
	Spotlight   *Spotlight
}

// Cover features the freshest releases of the week.
type Cover struct {
	Headline string
	Features []model.Beer
}

// Arrival is one windowed release with display-ready stats.
type Arrival struct {
	Beer       model.Beer
	VenueName  string
	Age        string
	ABVDisplay string
	IBUDisplay string
}

// Spotlight profiles the most active venue of the window.
type Spotlight struct {
	Venue       model.Venue
	Checkins    int
	Beers       []model.Beer
	RecentPosts []model.Post
}

type Composer struct {
	logger       *zap.Logger
	trends       *trending.Engine
	lookbackDays int
	trendingDays int
}

func NewComposer(logger *zap.Logger, trends *trending.Engine, lookbackDays, trendingDays int) *Composer {
	return &Composer{
		logger:       logger,
		trends:       trends,
		lookbackDays: catalog.NormalizeDays(lookbackDays),
		trendingDays: catalog.NormalizeDays(trendingDays),
	}
}

// BuildIssue assembles the issue for the week containing now. Output is
// deterministic for a fixed snapshot and reference time.
func (c *Composer) BuildIssue(snap *catalog.Snapshot, now time.Time) *Issue {
	year, week := now.ISOWeek()

	releases := c.trends.NewReleases(snap, now, c.lookbackDays)
	board := c.trends.Trending(snap, now, c.trendingDays)

	issue := &Issue{
		Number:      week,
		Year:        year,
		GeneratedAt: now,
		Cover:       cover(week, releases),
		FreshOnTap:  board,
		NewArrivals: arrivals(snap, releases, now),
		Spotlight:   c.spotlight(snap, board, now),
	}

	c.logger.Info("magazine issue built",
		zap.Int("issue", week),
		zap.Int("arrivals", len(issue.NewArrivals)),
		zap.Int("checkins", board.TotalCheckins))

	return issue
}

func cover(week int, releases []model.Beer) Cover {
	features := releases
	if len(features) > coverFeatures {
		features = features[:coverFeatures]
	}

	return Cover{
		Headline: fmt.Sprintf("Fresh Taps: Week %d", week),
		Features: features,
	}
}

func arrivals(snap *catalog.Snapshot, releases []model.Beer, now time.Time) []Arrival {
	result := make([]Arrival, 0, len(releases))

	for index := range releases {
		beer := releases[index]

		venue, found := snap.VenueByID(beer.VenueID)
		if !found {
			continue
		}

		result = append(result, Arrival{
			Beer:       beer,
			VenueName:  venue.Name,
			Age:        catalog.RelativeAge(beer.ReleasedAt, now),
			ABVDisplay: abvDisplay(beer.ABV),
			IBUDisplay: ibuDisplay(beer.IBU),
		})
	}

	return result
}

func (c *Composer) spotlight(snap *catalog.Snapshot, board trending.Board, now time.Time) *Spotlight {
	if len(board.Venues) == 0 {
		return nil
	}

	venue, found := snap.VenueBySlug(board.Venues[0].Slug)
	if !found {
		return nil
	}

	posts := snap.PostsForVenue(venue.ID, now, c.trendingDays)
	if len(posts) > spotlightPosts {
		posts = posts[:spotlightPosts]
	}

	return &Spotlight{
		Venue:       venue,
		Checkins:    board.Venues[0].Count,
		Beers:       snap.BeersForVenue(venue.ID),
		RecentPosts: posts,
	}
}

func abvDisplay(abv *float64) string {
	if abv == nil {
		return UnknownStat
	}

	return fmt.Sprintf("%.1f%%", *abv)
}

func ibuDisplay(ibu *uint64) string {
	if ibu == nil {
		return UnknownStat
	}

	return fmt.Sprintf("%d", *ibu)
}

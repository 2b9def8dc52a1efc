package server

import (
	"time"

	"droscher.com/FreshTaps/pkg/catalog"
	"droscher.com/FreshTaps/pkg/magazine"
	"droscher.com/FreshTaps/pkg/model"
	"droscher.com/FreshTaps/pkg/recommend"
	"droscher.com/FreshTaps/pkg/trending"
)

// Response DTOs. The field names and nesting below are a contract with the
// rendering layer; changing them breaks the frontend.

type venueJSON struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Address         string     `json:"address"`
	Suburb          string     `json:"suburb"`
	Location        [2]float64 `json:"location"`
	InstagramHandle *string    `json:"instagram_handle"`
	Tags            []string   `json:"tags"`
}

type beerJSON struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	VenueID      string   `json:"venue_id"`
	Style        string   `json:"style"`
	ABV          *float64 `json:"abv"`
	IBU          *uint64  `json:"ibu"`
	Description  string   `json:"description"`
	LabelURL     *string  `json:"label_url"`
	Rating       *float64 `json:"rating"`
	ReleaseDate  string   `json:"release_date"`
	IsNewRelease bool     `json:"is_new_release"`
	Age          string   `json:"age"`
}

type postJSON struct {
	ID       string  `json:"id"`
	VenueID  string  `json:"venue_id"`
	Platform string  `json:"platform"`
	Content  string  `json:"content"`
	PostedAt string  `json:"posted_at"`
	PostURL  *string `json:"post_url"`
}

type recommendationJSON struct {
	Venue         venueJSON  `json:"venue"`
	NewBeers      []beerJSON `json:"new_beers"`
	RelevantPosts []postJSON `json:"relevant_posts"`
	Reason        string     `json:"reason"`
	DistanceKm    *float64   `json:"distance_km"`
}

type trendingEntryJSON struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
}

type trendingJSON struct {
	Beers         []trendingEntryJSON `json:"beers"`
	Venues        []trendingEntryJSON `json:"venues"`
	Styles        []trendingEntryJSON `json:"styles"`
	Suburbs       []trendingEntryJSON `json:"suburbs"`
	Period        string              `json:"period"`
	TotalCheckins int                 `json:"total_checkins"`
}

type statsJSON struct {
	TotalVenues           int      `json:"total_venues"`
	TotalBeers            int      `json:"total_beers"`
	NewReleases           int      `json:"new_releases"`
	VenuesWithNewReleases int      `json:"venues_with_new_releases"`
	Breweries             int      `json:"breweries"`
	Bars                  int      `json:"bars"`
	PopularSuburbs        []string `json:"popular_suburbs"`
	LastUpdated           string   `json:"last_updated"`
}

func venueFromModel(venue model.Venue) venueJSON {
	tags := make([]string, 0, len(venue.Tags))
	for _, tag := range venue.Tags {
		tags = append(tags, tag.Tag)
	}

	return venueJSON{
		ID:              venue.Slug,
		Name:            venue.Name,
		Type:            string(venue.Type),
		Address:         venue.Address,
		Suburb:          venue.Suburb,
		Location:        [2]float64{venue.Latitude, venue.Longitude},
		InstagramHandle: venue.InstagramHandle,
		Tags:            tags,
	}
}

func beerFromModel(beer model.Beer, snap *catalog.Snapshot, now time.Time, days int) beerJSON {
	venueSlug := ""
	if venue, found := snap.VenueByID(beer.VenueID); found {
		venueSlug = venue.Slug
	}

	return beerJSON{
		ID:           beer.Slug,
		Name:         beer.Name,
		VenueID:      venueSlug,
		Style:        beer.Style,
		ABV:          beer.ABV,
		IBU:          beer.IBU,
		Description:  beer.Description,
		LabelURL:     beer.LabelURL,
		Rating:       beer.Rating,
		ReleaseDate:  beer.ReleasedAt.UTC().Format(time.RFC3339),
		IsNewRelease: catalog.IsNew(beer.ReleasedAt, now, days),
		Age:          catalog.RelativeAge(beer.ReleasedAt, now),
	}
}

func beersFromModel(beers []model.Beer, snap *catalog.Snapshot, now time.Time, days int) []beerJSON {
	result := make([]beerJSON, 0, len(beers))
	for index := range beers {
		result = append(result, beerFromModel(beers[index], snap, now, days))
	}

	return result
}

func postFromModel(post model.Post, snap *catalog.Snapshot) postJSON {
	venueSlug := ""
	if venue, found := snap.VenueByID(post.VenueID); found {
		venueSlug = venue.Slug
	}

	return postJSON{
		ID:       post.Slug,
		VenueID:  venueSlug,
		Platform: post.Platform,
		Content:  post.Content,
		PostedAt: post.PostedAt.UTC().Format(time.RFC3339),
		PostURL:  post.PostURL,
	}
}

func postsFromModel(posts []model.Post, snap *catalog.Snapshot) []postJSON {
	result := make([]postJSON, 0, len(posts))
	for index := range posts {
		result = append(result, postFromModel(posts[index], snap))
	}

	return result
}

func recommendationFromModel(rec recommend.Recommendation, snap *catalog.Snapshot, now time.Time, days int) recommendationJSON {
	return recommendationJSON{
		Venue:         venueFromModel(rec.Venue),
		NewBeers:      beersFromModel(rec.NewBeers, snap, now, days),
		RelevantPosts: postsFromModel(rec.RelevantPosts, snap),
		Reason:        rec.Reason,
		DistanceKm:    rec.DistanceKm,
	}
}

func trendingEntries(entries []trending.Entry, entryType string) []trendingEntryJSON {
	result := make([]trendingEntryJSON, 0, len(entries))
	for _, entry := range entries {
		result = append(result, trendingEntryJSON{Name: entry.Name, Count: entry.Count, Type: entryType, ID: entry.Slug})
	}

	return result
}

type issueJSON struct {
	Issue       int            `json:"issue"`
	Year        int            `json:"year"`
	GeneratedAt string         `json:"generated_at"`
	Cover       coverJSON      `json:"cover"`
	FreshOnTap  trendingJSON   `json:"fresh_on_tap"`
	NewArrivals []arrivalJSON  `json:"new_arrivals"`
	Spotlight   *spotlightJSON `json:"spotlight"`
}

type coverJSON struct {
	Headline string     `json:"headline"`
	Features []beerJSON `json:"features"`
}

type arrivalJSON struct {
	Beer  beerJSON `json:"beer"`
	Venue string   `json:"venue"`
	Age   string   `json:"age"`
	ABV   string   `json:"abv_display"`
	IBU   string   `json:"ibu_display"`
}

type spotlightJSON struct {
	Venue       venueJSON  `json:"venue"`
	Checkins    int        `json:"checkins"`
	Beers       []beerJSON `json:"beers"`
	RecentPosts []postJSON `json:"recent_posts"`
}

func issueFromModel(issue *magazine.Issue, snap *catalog.Snapshot, now time.Time, days int) issueJSON {
	board := trendingJSON{
		Beers:         trendingEntries(issue.FreshOnTap.Beers, "beer"),
		Venues:        trendingEntries(issue.FreshOnTap.Venues, "venue"),
		Styles:        trendingEntries(issue.FreshOnTap.Styles, "style"),
		Suburbs:       trendingEntries(issue.FreshOnTap.Suburbs, "suburb"),
		Period:        periodLabel(issue.FreshOnTap.PeriodDays),
		TotalCheckins: issue.FreshOnTap.TotalCheckins,
	}

	arrivals := make([]arrivalJSON, 0, len(issue.NewArrivals))
	for _, arrival := range issue.NewArrivals {
		arrivals = append(arrivals, arrivalJSON{
			Beer:  beerFromModel(arrival.Beer, snap, now, days),
			Venue: arrival.VenueName,
			Age:   arrival.Age,
			ABV:   arrival.ABVDisplay,
			IBU:   arrival.IBUDisplay,
		})
	}

	result := issueJSON{
		Issue:       issue.Number,
		Year:        issue.Year,
		GeneratedAt: issue.GeneratedAt.UTC().Format(time.RFC3339),
		Cover: coverJSON{
			Headline: issue.Cover.Headline,
			Features: beersFromModel(issue.Cover.Features, snap, now, days),
		},
		FreshOnTap:  board,
		NewArrivals: arrivals,
	}

	if issue.Spotlight != nil {
		spotlight := spotlightJSON{
			Venue:       venueFromModel(issue.Spotlight.Venue),
			Checkins:    issue.Spotlight.Checkins,
			Beers:       beersFromModel(issue.Spotlight.Beers, snap, now, days),
			RecentPosts: postsFromModel(issue.Spotlight.RecentPosts, snap),
		}
		result.Spotlight = &spotlight
	}

	return result
}

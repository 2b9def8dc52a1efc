package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"droscher.com/FreshTaps/pkg/geo"
	"droscher.com/FreshTaps/pkg/model"
	"droscher.com/FreshTaps/pkg/recommend"
)

func (s *Server) handleIndex(writer http.ResponseWriter, _ *http.Request) {
	writeJSON(writer, http.StatusOK, map[string]any{
		"message": "FreshTaps API",
		"status":  "online",
		"endpoints": map[string]string{
			"recommendations": "/api/recommendations",
			"new_releases":    "/api/beers/new",
			"beers":           "/api/beers",
			"venues":          "/api/venues",
			"trending":        "/api/trending",
			"top_10":          "/api/top-10",
			"stats":           "/api/stats",
			"issue":           "/api/issue/latest",
		},
	})
}

func (s *Server) handleHealth(writer http.ResponseWriter, _ *http.Request) {
	writeJSON(writer, http.StatusOK, map[string]string{"status": "ok"})
}

// days parses the lookback parameter, falling back to the given default on
// anything malformed or negative. Bad input degrades, it never errors.
func days(request *http.Request, fallback int) int {
	raw := request.URL.Query().Get("days")
	if raw == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return fallback
	}

	return parsed
}

func (s *Server) handleRecommendations(writer http.ResponseWriter, request *http.Request) {
	snap := s.snapshot(writer)
	if snap == nil {
		return
	}

	now := time.Now().UTC()
	window := days(request, s.conf.Engine.LookbackDays)
	query := request.URL.Query()

	params := recommend.Params{
		Now:         now,
		Suburb:      query.Get("suburb"),
		Days:        window,
		Location:    geo.ParsePoint(query.Get("user_lat"), query.Get("user_lng")),
		LikedStyles: recommend.SplitStyles(query.Get("liked_styles")),
		MaxPosts:    s.conf.Engine.MaxPostsPerVenue,
	}

	recommendations := s.recommender.Recommend(snap, params)

	result := make([]recommendationJSON, 0, len(recommendations))
	for _, rec := range recommendations {
		result = append(result, recommendationFromModel(rec, snap, now, window))
	}

	writeJSON(writer, http.StatusOK, result)
}

func (s *Server) handleNewReleases(writer http.ResponseWriter, request *http.Request) {
	snap := s.snapshot(writer)
	if snap == nil {
		return
	}

	now := time.Now().UTC()
	window := days(request, s.conf.Engine.LookbackDays)

	releases := s.trends.NewReleases(snap, now, window)

	writeJSON(writer, http.StatusOK, beersFromModel(releases, snap, now, window))
}

func (s *Server) handleBeers(writer http.ResponseWriter, request *http.Request) {
	snap := s.snapshot(writer)
	if snap == nil {
		return
	}

	now := time.Now().UTC()
	style := request.URL.Query().Get("style")

	beers := snap.Beers()
	if style != "" {
		filtered := make([]model.Beer, 0, len(beers))

		for index := range beers {
			if recommend.MatchesStyle(beers[index].Style, style) {
				filtered = append(filtered, beers[index])
			}
		}

		beers = filtered
	}

	writeJSON(writer, http.StatusOK, beersFromModel(beers, snap, now, s.conf.Engine.LookbackDays))
}

func (s *Server) handleVenues(writer http.ResponseWriter, request *http.Request) {
	snap := s.snapshot(writer)
	if snap == nil {
		return
	}

	query := request.URL.Query()
	venues := snap.VenuesByType(model.VenueType(query.Get("type")))

	if suburb := query.Get("suburb"); suburb != "" {
		filtered := make([]model.Venue, 0, len(venues))

		for index := range venues {
			if venues[index].Suburb == suburb {
				filtered = append(filtered, venues[index])
			}
		}

		venues = filtered
	}

	result := make([]venueJSON, 0, len(venues))
	for index := range venues {
		result = append(result, venueFromModel(venues[index]))
	}

	writeJSON(writer, http.StatusOK, result)
}

func (s *Server) handleVenuePosts(writer http.ResponseWriter, request *http.Request) {
	snap := s.snapshot(writer)
	if snap == nil {
		return
	}

	venue, found := snap.VenueBySlug(chi.URLParam(request, "slug"))
	if !found {
		writeError(writer, http.StatusNotFound, "venue not found")

		return
	}

	now := time.Now().UTC()
	window := days(request, s.conf.Engine.LookbackDays)
	posts := snap.PostsForVenue(venue.ID, now, window)

	writeJSON(writer, http.StatusOK, postsFromModel(posts, snap))
}

func (s *Server) handleTrending(writer http.ResponseWriter, request *http.Request) {
	snap := s.snapshot(writer)
	if snap == nil {
		return
	}

	now := time.Now().UTC()
	window := days(request, s.conf.Engine.TrendingWindowDays)

	board := s.trends.Trending(snap, now, window)

	writeJSON(writer, http.StatusOK, trendingJSON{
		Beers:         trendingEntries(board.Beers, "beer"),
		Venues:        trendingEntries(board.Venues, "venue"),
		Styles:        trendingEntries(board.Styles, "style"),
		Suburbs:       trendingEntries(board.Suburbs, "suburb"),
		Period:        periodLabel(board.PeriodDays),
		TotalCheckins: board.TotalCheckins,
	})
}

func (s *Server) handleTopRated(writer http.ResponseWriter, request *http.Request) {
	snap := s.snapshot(writer)
	if snap == nil {
		return
	}

	now := time.Now().UTC()
	window := days(request, s.conf.Engine.TrendingWindowDays)

	top := s.trends.TopRated(snap, now, window)

	writeJSON(writer, http.StatusOK, map[string]any{
		"last_updated": snap.LastUpdated().UTC().Format(time.RFC3339),
		"beers":        beersFromModel(top, snap, now, s.conf.Engine.LookbackDays),
	})
}

func (s *Server) handleStats(writer http.ResponseWriter, request *http.Request) {
	snap := s.snapshot(writer)
	if snap == nil {
		return
	}

	now := time.Now().UTC()
	stats := snap.Stats(now, days(request, s.conf.Engine.LookbackDays))

	writeJSON(writer, http.StatusOK, statsJSON{
		TotalVenues:           stats.TotalVenues,
		TotalBeers:            stats.TotalBeers,
		NewReleases:           stats.NewReleases,
		VenuesWithNewReleases: stats.VenuesWithNewReleases,
		Breweries:             stats.Breweries,
		Bars:                  stats.Bars,
		PopularSuburbs:        stats.Suburbs,
		LastUpdated:           stats.LastUpdated.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleLatestIssue(writer http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot(writer)
	if snap == nil {
		return
	}

	now := time.Now().UTC()
	issue := s.composer.BuildIssue(snap, now)

	writeJSON(writer, http.StatusOK, issueFromModel(issue, snap, now, s.conf.Engine.LookbackDays))
}

type addVenueRequest struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Address         string   `json:"address"`
	Suburb          string   `json:"suburb"`
	Latitude        float64  `json:"lat"`
	Longitude       float64  `json:"lng"`
	InstagramHandle *string  `json:"instagram_handle"`
	Tags            []string `json:"tags"`
}

func (s *Server) handleAddVenue(writer http.ResponseWriter, request *http.Request) {
	var body addVenueRequest
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		writeError(writer, http.StatusBadRequest, "invalid request body")

		return
	}

	if body.ID == "" || body.Name == "" {
		writeError(writer, http.StatusBadRequest, "missing name or id")

		return
	}

	venueType := model.VenueType(body.Type)
	if venueType != model.VenueTypeBrewery && venueType != model.VenueTypeBar {
		venueType = model.VenueTypeBar
	}

	tags := make([]model.Tag, 0, len(body.Tags))
	for _, tag := range body.Tags {
		tags = append(tags, model.Tag{Tag: tag})
	}

	venue := model.Venue{
		Slug:            body.ID,
		Name:            body.Name,
		Type:            venueType,
		Address:         body.Address,
		Suburb:          body.Suburb,
		Latitude:        body.Latitude,
		Longitude:       body.Longitude,
		InstagramHandle: body.InstagramHandle,
		Tags:            tags,
	}

	created, err := s.venues.AddVenue(request.Context(), venue)
	if err != nil {
		s.logger.Error("error adding venue", zap.String("slug", body.ID), zap.Error(err))
		writeError(writer, http.StatusInternalServerError, "error adding venue")

		return
	}

	// Pick the new venue up immediately rather than waiting for the next
	// scheduled refresh. A failure here is non-fatal.
	if err = s.store.Refresh(request.Context()); err != nil {
		s.logger.Warn("snapshot refresh after venue add failed", zap.Error(err))
	}

	writeJSON(writer, http.StatusOK, map[string]any{
		"success": true,
		"venue":   venueFromModel(*created),
	})
}

func periodLabel(periodDays int) string {
	return fmt.Sprintf("%d days", periodDays)
}

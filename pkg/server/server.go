package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"droscher.com/FreshTaps/configs"
	"droscher.com/FreshTaps/pkg/auth"
	"droscher.com/FreshTaps/pkg/catalog"
	"droscher.com/FreshTaps/pkg/magazine"
	"droscher.com/FreshTaps/pkg/model"
	"droscher.com/FreshTaps/pkg/recommend"
	"droscher.com/FreshTaps/pkg/trending"
)

// VenueWriter is the slice of the repository the admin surface needs.
type VenueWriter interface {
	AddVenue(ctx context.Context, venue model.Venue) (*model.Venue, error)
}

type Server struct {
	store        *catalog.Store
	venues       VenueWriter
	recommender  *recommend.Engine
	trends       *trending.Engine
	composer     *magazine.Composer
	authManager  *auth.Manager
	conf         *configs.Config
	logger       *zap.Logger
	adminLimiter *rate.Limiter
}

func New(store *catalog.Store, venues VenueWriter, conf *configs.Config, logger *zap.Logger) *Server {
	trends := trending.NewEngine(logger, trending.Limits{
		Beers:  conf.Engine.TopBeers,
		Venues: conf.Engine.TopVenues,
		Styles: conf.Engine.TopStyles,
	})

	return &Server{
		store:        store,
		venues:       venues,
		recommender:  recommend.NewEngine(logger),
		trends:       trends,
		composer:     magazine.NewComposer(logger, trends, conf.Engine.LookbackDays, conf.Engine.TrendingWindowDays),
		authManager:  auth.NewAuthManager(conf, logger),
		conf:         conf,
		logger:       logger,
		adminLimiter: rate.NewLimiter(rate.Limit(1), 5),
	}
}

// Router wires the public JSON API. Field names in responses are a contract
// with the rendering layer; see convert.go.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(s.requestMetrics)

	router.Get("/healthz", s.handleHealth)
	router.Method(http.MethodGet, "/metrics", metricsHandler())

	router.Route("/api", func(api chi.Router) {
		api.Get("/", s.handleIndex)
		api.Get("/recommendations", s.handleRecommendations)
		api.Get("/beers/new", s.handleNewReleases)
		api.Get("/beers", s.handleBeers)
		api.Get("/venues", s.handleVenues)
		api.Get("/venues/{slug}/posts", s.handleVenuePosts)
		api.Get("/trending", s.handleTrending)
		api.Get("/top-10", s.handleTopRated)
		api.Get("/stats", s.handleStats)
		api.Get("/issue/latest", s.handleLatestIssue)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(s.rateLimitAdmin)
			admin.Use(s.authManager.RequireAdmin)
			admin.Post("/venues/add", s.handleAddVenue)
		})
	})

	return router
}

func (s *Server) rateLimitAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !s.adminLimiter.Allow() {
			writeError(writer, http.StatusTooManyRequests, "rate limit exceeded")

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// snapshot fetches the live catalog or writes the 503 "catalog unavailable"
// response. Handlers return early on nil.
func (s *Server) snapshot(writer http.ResponseWriter) *catalog.Snapshot {
	snap, err := s.store.Current()
	if err != nil {
		s.logger.Error("no catalog snapshot available", zap.Error(err))
		writeError(writer, http.StatusServiceUnavailable, "catalog unavailable")

		return nil
	}

	return snap
}

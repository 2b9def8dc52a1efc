package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"droscher.com/FreshTaps/pkg/model"
)

var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Loader supplies the raw catalog records, normally the postgres repository.
type Loader interface {
	GetVenues(ctx context.Context) ([]model.Venue, error)
	GetBeers(ctx context.Context) ([]model.Beer, error)
	GetPosts(ctx context.Context) ([]model.Post, error)
}

// Store holds the current snapshot behind an atomic pointer. Refreshes
// build a complete new snapshot before swapping, so an in-flight request
// never observes a half-updated catalog.
type Store struct {
	loader  Loader
	logger  *zap.Logger
	current atomic.Pointer[Snapshot]
}

func NewStore(loader Loader, logger *zap.Logger) *Store {
	return &Store{loader: loader, logger: logger}
}

// Current returns the live snapshot, or ErrCatalogUnavailable if no
// refresh has ever succeeded.
func (s *Store) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrCatalogUnavailable
	}

	return snap, nil
}

// Refresh loads all three collections and swaps in a new snapshot. On any
// load failure the previous snapshot stays live.
func (s *Store) Refresh(ctx context.Context) error {
	venues, venuesErr := s.loader.GetVenues(ctx)
	beers, beersErr := s.loader.GetBeers(ctx)
	posts, postsErr := s.loader.GetPosts(ctx)

	if err := multierr.Combine(venuesErr, beersErr, postsErr); err != nil {
		s.logger.Error("catalog refresh failed", zap.Error(err))

		return err
	}

	s.current.Store(NewSnapshot(venues, beers, posts, time.Now().UTC()))
	s.logger.Info("catalog refreshed",
		zap.Int("venues", len(venues)),
		zap.Int("beers", len(beers)),
		zap.Int("posts", len(posts)))

	return nil
}

// RunRefresher refreshes the snapshot on a fixed interval until the context
// is cancelled.
func (s *Store) RunRefresher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Warn("keeping previous catalog snapshot", zap.Error(err))
			}
		}
	}
}

package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"droscher.com/FreshTaps/pkg/catalog"
	"droscher.com/FreshTaps/pkg/model"
)

type stubLoader struct {
	venues    []model.Venue
	beers     []model.Beer
	posts     []model.Post
	venuesErr error
	beersErr  error
	postsErr  error
}

func (l *stubLoader) GetVenues(_ context.Context) ([]model.Venue, error) {
	return l.venues, l.venuesErr
}

func (l *stubLoader) GetBeers(_ context.Context) ([]model.Beer, error) {
	return l.beers, l.beersErr
}

func (l *stubLoader) GetPosts(_ context.Context) ([]model.Post, error) {
	return l.posts, l.postsErr
}

type StoreTestSuite struct {
	suite.Suite
	loader *stubLoader
	store  *catalog.Store
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (suite *StoreTestSuite) SetupTest() {
	suite.loader = &stubLoader{
		venues: []model.Venue{{Model: gorm.Model{ID: 1}, Slug: "young-henrys", Suburb: "Newtown"}},
		beers:  []model.Beer{{Model: gorm.Model{ID: 10}, Slug: "newtowner", VenueID: 1, ReleasedAt: time.Now()}},
		posts:  []model.Post{},
	}
	suite.store = catalog.NewStore(suite.loader, zaptest.NewLogger(suite.T()))
}

func (suite *StoreTestSuite) TestCurrent_UnavailableBeforeFirstRefresh() {
	snap, err := suite.store.Current()

	suite.Nil(snap)
	suite.ErrorIs(err, catalog.ErrCatalogUnavailable)
}

func (suite *StoreTestSuite) TestRefresh_SwapsInSnapshot() {
	suite.Require().NoError(suite.store.Refresh(context.Background()))

	snap, err := suite.store.Current()
	suite.Require().NoError(err)
	suite.Len(snap.Venues(), 1)
	suite.Len(snap.Beers(), 1)
}

func (suite *StoreTestSuite) TestRefresh_FailureKeepsPreviousSnapshot() {
	suite.Require().NoError(suite.store.Refresh(context.Background()))

	before, err := suite.store.Current()
	suite.Require().NoError(err)

	suite.loader.beersErr = errors.New("connection reset")
	suite.Require().Error(suite.store.Refresh(context.Background()))

	after, err := suite.store.Current()
	suite.Require().NoError(err)
	suite.Same(before, after)
}

func (suite *StoreTestSuite) TestRefresh_CombinesLoadErrors() {
	suite.loader.venuesErr = errors.New("venues boom")
	suite.loader.postsErr = errors.New("posts boom")

	err := suite.store.Refresh(context.Background())

	suite.Require().Error(err)
	suite.Contains(err.Error(), "venues boom")
	suite.Contains(err.Error(), "posts boom")
}

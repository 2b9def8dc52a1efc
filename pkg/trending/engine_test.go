package trending_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.openly.dev/pointy"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"droscher.com/FreshTaps/pkg/catalog"
	"droscher.com/FreshTaps/pkg/model"
	"droscher.com/FreshTaps/pkg/trending"
)

type EngineTestSuite struct {
	suite.Suite
	now    time.Time
	engine *trending.Engine
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	suite.now = time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	suite.engine = trending.NewEngine(zaptest.NewLogger(suite.T()), trending.Limits{})
}

func (suite *EngineTestSuite) TestNewReleases_MostRecentFirst() {
	beers := []model.Beer{
		{Model: gorm.Model{ID: 1}, Slug: "older", Name: "Older", VenueID: 1, ReleasedAt: suite.now.Add(-3 * 24 * time.Hour)},
		{Model: gorm.Model{ID: 2}, Slug: "newest", Name: "Newest", VenueID: 1, ReleasedAt: suite.now.Add(-1 * time.Hour)},
		{Model: gorm.Model{ID: 3}, Slug: "stale", Name: "Stale", VenueID: 1, ReleasedAt: suite.now.Add(-30 * 24 * time.Hour)},
	}
	snap := catalog.NewSnapshot(nil, beers, nil, suite.now)

	releases := suite.engine.NewReleases(snap, suite.now, 7)

	suite.Require().Len(releases, 2)
	suite.Equal("Newest", releases[0].Name)
	suite.Equal("Older", releases[1].Name)
}

func (suite *EngineTestSuite) TestNewReleases_NameBreaksTimestampTies() {
	released := suite.now.Add(-24 * time.Hour)
	beers := []model.Beer{
		{Model: gorm.Model{ID: 1}, Slug: "zeta", Name: "Zeta", VenueID: 1, ReleasedAt: released},
		{Model: gorm.Model{ID: 2}, Slug: "alpha", Name: "Alpha", VenueID: 1, ReleasedAt: released},
	}
	snap := catalog.NewSnapshot(nil, beers, nil, suite.now)

	releases := suite.engine.NewReleases(snap, suite.now, 7)

	suite.Require().Len(releases, 2)
	suite.Equal("Alpha", releases[0].Name)
	suite.Equal("Zeta", releases[1].Name)
}

func (suite *EngineTestSuite) TestNewReleases_MissingABVAndIBUStillAppear() {
	beers := []model.Beer{
		{Model: gorm.Model{ID: 1}, Slug: "mystery", Name: "Mystery Keg", VenueID: 1,
			ReleasedAt: suite.now.Add(-time.Hour)},
	}
	snap := catalog.NewSnapshot(nil, beers, nil, suite.now)

	releases := suite.engine.NewReleases(snap, suite.now, 7)

	suite.Require().Len(releases, 1)
	suite.Nil(releases[0].ABV)
	suite.Nil(releases[0].IBU)
}

func (suite *EngineTestSuite) trendingFixture() *catalog.Snapshot {
	venues := []model.Venue{
		{Model: gorm.Model{ID: 1}, Slug: "young-henrys", Name: "Young Henrys", Suburb: "Newtown"},
		{Model: gorm.Model{ID: 2}, Slug: "batch-brewing", Name: "Batch Brewing Company", Suburb: "Marrickville"},
	}
	posts := []model.Post{
		{Model: gorm.Model{ID: 1}, Slug: "c1", VenueID: 1, PostedAt: suite.now.Add(-time.Hour),
			BeerName: pointy.String("Newtowner"), BeerStyle: pointy.String("Australian Pale Ale")},
		{Model: gorm.Model{ID: 2}, Slug: "c2", VenueID: 1, PostedAt: suite.now.Add(-2 * time.Hour),
			BeerName: pointy.String("Newtowner"), BeerStyle: pointy.String("Australian Pale Ale")},
		{Model: gorm.Model{ID: 3}, Slug: "c3", VenueID: 2, PostedAt: suite.now.Add(-3 * time.Hour),
			BeerName: pointy.String("Elsie"), BeerStyle: pointy.String("Milk Stout")},
		// Plain post with no check-in details still counts venue activity.
		{Model: gorm.Model{ID: 4}, Slug: "c4", VenueID: 2, PostedAt: suite.now.Add(-4 * time.Hour)},
		// Outside the window.
		{Model: gorm.Model{ID: 5}, Slug: "c5", VenueID: 1, PostedAt: suite.now.Add(-20 * 24 * time.Hour),
			BeerName: pointy.String("Old News")},
		// Unknown venue reference is skipped, not fatal.
		{Model: gorm.Model{ID: 6}, Slug: "c6", VenueID: 99, PostedAt: suite.now.Add(-time.Hour),
			BeerName: pointy.String("Ghost Beer")},
	}

	return catalog.NewSnapshot(venues, nil, posts, suite.now)
}

func (suite *EngineTestSuite) TestTrending_CountsWithinWindow() {
	board := suite.engine.Trending(suite.trendingFixture(), suite.now, 14)

	suite.Equal(4, board.TotalCheckins)
	suite.Equal(14, board.PeriodDays)

	suite.Require().Len(board.Beers, 2)
	suite.Equal(trending.Entry{Name: "Newtowner", Count: 2}, board.Beers[0])
	suite.Equal(trending.Entry{Name: "Elsie", Count: 1}, board.Beers[1])

	suite.Require().Len(board.Venues, 2)
	suite.Equal("Batch Brewing Company", board.Venues[0].Name)
	suite.Equal(2, board.Venues[0].Count)
	suite.Equal("batch-brewing", board.Venues[0].Slug)

	suite.Require().Len(board.Styles, 2)
	suite.Equal(trending.Entry{Name: "Pale Ale", Count: 2}, board.Styles[0])
	suite.Equal(trending.Entry{Name: "Stout", Count: 1}, board.Styles[1])

	suite.Require().Len(board.Suburbs, 2)
	suite.Equal(trending.Entry{Name: "Marrickville", Count: 2}, board.Suburbs[0])
}

func (suite *EngineTestSuite) TestTrending_IsDeterministic() {
	snap := suite.trendingFixture()

	first := suite.engine.Trending(snap, suite.now, 14)
	second := suite.engine.Trending(snap, suite.now, 14)

	suite.Equal(first, second)
}

func (suite *EngineTestSuite) TestTrending_TruncatesAndBreaksTiesAlphabetically() {
	venues := []model.Venue{{Model: gorm.Model{ID: 1}, Slug: "venue", Name: "Venue", Suburb: "Newtown"}}

	styles := []string{"Altbier", "Barleywine", "Dubbel", "Gose", "Helles",
		"Kolsch", "Marzen", "Pilsner", "Quadrupel", "Rauchbier", "Tripel", "Witbier"}
	posts := make([]model.Post, 0, len(styles)*3)

	for index, style := range styles {
		for repeat := 0; repeat < 3; repeat++ {
			posts = append(posts, model.Post{
				Model:     gorm.Model{ID: uint(index*3 + repeat + 1)},
				Slug:      fmt.Sprintf("p-%d-%d", index, repeat),
				VenueID:   1,
				PostedAt:  suite.now.Add(-time.Hour),
				BeerStyle: pointy.String(style),
			})
		}
	}

	snap := catalog.NewSnapshot(venues, nil, posts, suite.now)

	board := suite.engine.Trending(snap, suite.now, 14)

	suite.Require().Len(board.Styles, 5)
	suite.Equal("Altbier", board.Styles[0].Name)
	suite.Equal("Barleywine", board.Styles[1].Name)
	suite.Equal("Dubbel", board.Styles[2].Name)
	suite.Equal("Gose", board.Styles[3].Name)
	suite.Equal("Helles", board.Styles[4].Name)
}

func (suite *EngineTestSuite) TestTopN_SelectsByScore() {
	items := []int{3, 9, 1, 7}

	top := trending.TopN(items, 2, func(item int) float64 { return float64(item) })

	suite.Equal([]int{9, 7}, top)
}

func (suite *EngineTestSuite) TestTopN_StableForEqualScores() {
	items := []string{"first", "second", "third"}

	top := trending.TopN(items, 3, func(string) float64 { return 1 })

	suite.Equal(items, top)
}

func (suite *EngineTestSuite) TestTopN_DoesNotMutateInput() {
	items := []int{3, 9, 1}

	_ = trending.TopN(items, 3, func(item int) float64 { return float64(item) })

	suite.Equal([]int{3, 9, 1}, items)
}

func (suite *EngineTestSuite) TestPopularityScore_MissingRatingContributesNothing() {
	rated := model.Beer{Rating: pointy.Float64(4.2)}
	unrated := model.Beer{}

	suite.InDelta(42.0, trending.PopularityScore(rated, 0), 0.0001)
	suite.InDelta(0.0, trending.PopularityScore(unrated, 0), 0.0001)
	suite.InDelta(6.0, trending.PopularityScore(unrated, 2), 0.0001)
}

func (suite *EngineTestSuite) TestTopRated_OrdersByRatingAndMentions() {
	venues := []model.Venue{{Model: gorm.Model{ID: 1}, Slug: "venue", Name: "Venue", Suburb: "Newtown"}}
	beers := []model.Beer{
		{Model: gorm.Model{ID: 1}, Slug: "solid", Name: "Solid", VenueID: 1, Rating: pointy.Float64(3.8),
			ReleasedAt: suite.now.Add(-time.Hour)},
		{Model: gorm.Model{ID: 2}, Slug: "hyped", Name: "Hyped", VenueID: 1, Rating: pointy.Float64(3.5),
			ReleasedAt: suite.now.Add(-time.Hour)},
		{Model: gorm.Model{ID: 3}, Slug: "unrated", Name: "Unrated", VenueID: 1,
			ReleasedAt: suite.now.Add(-time.Hour)},
	}
	posts := []model.Post{
		{Model: gorm.Model{ID: 1}, Slug: "m1", VenueID: 1, PostedAt: suite.now.Add(-time.Hour), BeerName: pointy.String("Hyped")},
		{Model: gorm.Model{ID: 2}, Slug: "m2", VenueID: 1, PostedAt: suite.now.Add(-time.Hour), BeerName: pointy.String("Hyped")},
	}
	snap := catalog.NewSnapshot(venues, beers, posts, suite.now)

	top := suite.engine.TopRated(snap, suite.now, 14)

	suite.Require().Len(top, 3)
	// Hyped: 3.5*10 + 2*3 = 41; Solid: 38; Unrated: 0.
	suite.Equal("Hyped", top[0].Name)
	suite.Equal("Solid", top[1].Name)
	suite.Equal("Unrated", top[2].Name)
}

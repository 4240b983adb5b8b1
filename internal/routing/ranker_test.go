package routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commutesg/routecore/internal/models"
	"github.com/commutesg/routecore/internal/routing"
)

func rankedRoute(id string, duration float64, legs []models.TripLeg, segments []models.RouteSegment) routing.RankedRoute {
	return routing.RankedRoute{
		Candidate: models.RouteCandidate{ID: id, TotalDuration: duration},
		Legs:      legs,
		Segments:  segments,
	}
}

func TestRouteRanker_SortFastestAscending(t *testing.T) {
	routes := []routing.RankedRoute{
		rankedRoute("slow", 500, nil, nil),
		rankedRoute("fast", 200, nil, nil),
	}
	routing.NewRouteRanker().Sort(routes, models.SortFastest)

	assert.Equal(t, "fast", routes[0].Candidate.ID)
	assert.Equal(t, "slow", routes[1].Candidate.ID)
}

func TestRouteRanker_SortLessTransfersOutranksDuration(t *testing.T) {
	oneTransfer := []models.TripLeg{{Kind: models.KindBus}, {Kind: models.KindMRT}}
	zeroTransfers := []models.TripLeg{{Kind: models.KindBus}}

	routes := []routing.RankedRoute{
		rankedRoute("more-transfers-faster", 100, oneTransfer, nil),
		rankedRoute("fewer-transfers-slower", 300, zeroTransfers, nil),
	}
	routing.NewRouteRanker().Sort(routes, models.SortLessTransfers)

	assert.Equal(t, "fewer-transfers-slower", routes[0].Candidate.ID)
	assert.Equal(t, "more-transfers-faster", routes[1].Candidate.ID)
}

func TestRouteRanker_SortLessTransfersIgnoresWalkLegs(t *testing.T) {
	walkPlusOneRide := []models.TripLeg{{Kind: models.KindWalk}, {Kind: models.KindBus}}
	twoRides := []models.TripLeg{{Kind: models.KindBus}, {Kind: models.KindMRT}}

	routes := []routing.RankedRoute{
		rankedRoute("walk-and-one-ride", 100, walkPlusOneRide, nil),
		rankedRoute("two-rides", 50, twoRides, nil),
	}
	routing.NewRouteRanker().Sort(routes, models.SortLessTransfers)

	// walk-and-one-ride has zero transfers (one non-WALK leg); two-rides has
	// one transfer (two non-WALK legs) — the WALK leg must not count toward
	// the non-WALK leg total on either side.
	assert.Equal(t, "walk-and-one-ride", routes[0].Candidate.ID)
	assert.Equal(t, "two-rides", routes[1].Candidate.ID)
}

func TestRouteRanker_SortLessWalkingOutranksDuration(t *testing.T) {
	short := []models.RouteSegment{{Kind: models.KindWalk, Positions: []models.Coordinate{
		{Lat: 1.30, Lng: 103.80}, {Lat: 1.3005, Lng: 103.80},
	}}}
	long := []models.RouteSegment{{Kind: models.KindWalk, Positions: []models.Coordinate{
		{Lat: 1.30, Lng: 103.80}, {Lat: 1.31, Lng: 103.80},
	}}}

	routes := []routing.RankedRoute{
		rankedRoute("more-walking-faster", 100, nil, long),
		rankedRoute("less-walking-slower", 300, nil, short),
	}
	routing.NewRouteRanker().Sort(routes, models.SortLessWalking)

	assert.Equal(t, "less-walking-slower", routes[0].Candidate.ID)
	assert.Equal(t, "more-walking-faster", routes[1].Candidate.ID)
}

func TestRouteRanker_SortIsStableForEqualKeys(t *testing.T) {
	routes := []routing.RankedRoute{
		rankedRoute("first", 200, nil, nil),
		rankedRoute("second", 200, nil, nil),
		rankedRoute("third", 200, nil, nil),
	}
	routing.NewRouteRanker().Sort(routes, models.SortFastest)

	assert.Equal(t, "first", routes[0].Candidate.ID)
	assert.Equal(t, "second", routes[1].Candidate.ID)
	assert.Equal(t, "third", routes[2].Candidate.ID)
}

func TestRouteRanker_FilterAndSortRemovesExcludedModes(t *testing.T) {
	busRoute := rankedRoute("bus", 100, nil, []models.RouteSegment{{Kind: models.KindBus}})
	mrtRoute := rankedRoute("mrt", 300, nil, []models.RouteSegment{{Kind: models.KindMRT}})

	filtered := routing.NewRouteRanker().FilterAndSort(
		[]routing.RankedRoute{busRoute, mrtRoute}, models.SortFastest, []models.Kind{models.KindBus})

	assert := assert.New(t)
	assert.Len(filtered, 1)
	assert.Equal("mrt", filtered[0].Candidate.ID)
}

func TestRouteRanker_FilterAndSortNeverExcludesWalkSegments(t *testing.T) {
	walkRoute := rankedRoute("walk", 600, nil, []models.RouteSegment{{Kind: models.KindWalk}})

	filtered := routing.NewRouteRanker().FilterAndSort(
		[]routing.RankedRoute{walkRoute}, models.SortFastest, []models.Kind{models.KindWalk})

	assert.Len(t, filtered, 1)
}

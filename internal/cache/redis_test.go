package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commutesg/routecore/internal/cache"
	"github.com/commutesg/routecore/internal/models"
)

func TestRouteKey_DeterministicForSameInputs(t *testing.T) {
	origin := models.Endpoint{NodeID: "A"}
	destination := models.Endpoint{NodeID: "D"}

	k1 := cache.RouteKey(origin, destination, []models.Kind{models.KindBus, models.KindMRT}, models.SortFastest)
	k2 := cache.RouteKey(origin, destination, []models.Kind{models.KindMRT, models.KindBus}, models.SortFastest)

	// Excluded-mode order must not affect the key.
	assert.Equal(t, k1, k2)
}

func TestRouteKey_DiffersOnSortOption(t *testing.T) {
	origin := models.Endpoint{NodeID: "A"}
	destination := models.Endpoint{NodeID: "D"}

	fastest := cache.RouteKey(origin, destination, nil, models.SortFastest)
	lessTransfers := cache.RouteKey(origin, destination, nil, models.SortLessTransfers)

	assert.NotEqual(t, fastest, lessTransfers)
}

func TestRouteKey_DistinguishesCoordinateFromNodeEndpoint(t *testing.T) {
	nodeOrigin := models.Endpoint{NodeID: "1.3000,103.8000"}
	coordOrigin := models.Endpoint{Coordinate: &models.Coordinate{Lat: 1.3000, Lng: 103.8000}}
	destination := models.Endpoint{NodeID: "D"}

	k1 := cache.RouteKey(nodeOrigin, destination, nil, models.SortFastest)
	k2 := cache.RouteKey(coordOrigin, destination, nil, models.SortFastest)

	assert.NotEqual(t, k1, k2)
}

func TestLockKey_PrefixesRouteKey(t *testing.T) {
	assert.Equal(t, "lock:route:abc", cache.LockKey("route:abc"))
}

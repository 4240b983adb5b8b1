package graphdata

import (
	"math"
	"sort"

	"github.com/commutesg/routecore/internal/models"
)

const (
	earthRadiusKm = 6371.0

	// DefaultNearbyRadiusKm and DefaultNearbyLimit are the bounds
	// FindNearbyNodes applies when called with a non-positive radius or
	// limit; they equal the bounds internal/routing's Pathfinder passes for
	// its virtual source/sink neighbour search. Deliberately
	// not configurable: widening either materially changes search cost and
	// result quality, so a change here should be a conscious code edit, not
	// a runtime knob.
	DefaultNearbyRadiusKm = 0.8
	DefaultNearbyLimit    = 5
)

// NearbyNode pairs a NodeID with its great-circle distance (km) from a
// query coordinate.
type NearbyNode struct {
	NodeID     models.NodeID
	DistanceKm float64
}

// FindNearbyNodes returns the nodes within maxRadiusKm of coord, sorted
// ascending by distance and truncated to at most limit results. It uses the
// haversine great-circle formula on the WGS-84 sphere (radius 6371 km).
func (s *Store) FindNearbyNodes(coord models.Coordinate, maxRadiusKm float64, limit int) []NearbyNode {
	if maxRadiusKm <= 0 {
		maxRadiusKm = DefaultNearbyRadiusKm
	}
	if limit <= 0 {
		limit = DefaultNearbyLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []NearbyNode
	for id, meta := range s.meta {
		d := haversineKm(coord, meta.Coordinates)
		if d <= maxRadiusKm {
			candidates = append(candidates, NearbyNode{NodeID: id, DistanceKm: d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].DistanceKm < candidates[j].DistanceKm
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates
}

// haversineKm computes the great-circle distance between two coordinates in
// kilometres.
func haversineKm(a, b models.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

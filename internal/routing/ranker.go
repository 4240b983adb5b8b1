package routing

import (
	"math"
	"sort"

	"github.com/commutesg/routecore/internal/models"
)

const earthRadiusKm = 6371.0

// RankedRoute pairs a RouteCandidate with the compacted legs and segments
// RouteRanker needs to compute transfer count and walking distance, so
// callers never have to recompute them out of band.
type RankedRoute struct {
	Candidate models.RouteCandidate
	Legs      []models.TripLeg
	Segments  []models.RouteSegment
}

// RouteRanker stably sorts a small set of candidate routes by one of three
// rider-facing criteria: total duration, transfer count, or walking
// distance.
type RouteRanker struct{}

// NewRouteRanker returns a ready-to-use RouteRanker. It carries no state.
func NewRouteRanker() RouteRanker {
	return RouteRanker{}
}

// Sort stably reorders routes in place per sortBy and also returns the slice
// for chaining.
func (RouteRanker) Sort(routes []RankedRoute, sortBy models.SortOption) []RankedRoute {
	switch sortBy {
	case models.SortLessTransfers:
		sort.SliceStable(routes, func(i, j int) bool {
			ti, tj := transferCount(routes[i].Legs), transferCount(routes[j].Legs)
			if ti != tj {
				return ti < tj
			}
			return routes[i].Candidate.TotalDuration < routes[j].Candidate.TotalDuration
		})
	case models.SortLessWalking:
		sort.SliceStable(routes, func(i, j int) bool {
			wi, wj := walkingDistance(routes[i].Segments), walkingDistance(routes[j].Segments)
			if wi != wj {
				return wi < wj
			}
			return routes[i].Candidate.TotalDuration < routes[j].Candidate.TotalDuration
		})
	default: // models.SortFastest and unspecified both default to fastest
		sort.SliceStable(routes, func(i, j int) bool {
			return routes[i].Candidate.TotalDuration < routes[j].Candidate.TotalDuration
		})
	}
	return routes
}

// FilterAndSort removes any route with at least one non-WALK segment whose
// kind is in excludedModes, then sorts the remainder. This is a post-filter
// safety net: Pathfinder already enforces mode exclusions during the search.
func (r RouteRanker) FilterAndSort(routes []RankedRoute, sortBy models.SortOption, excludedModes []models.Kind) []RankedRoute {
	excluded := make(map[models.Kind]bool, len(excludedModes))
	for _, k := range excludedModes {
		excluded[k] = true
	}

	kept := make([]RankedRoute, 0, len(routes))
	for _, route := range routes {
		if !containsExcludedMode(route.Segments, excluded) {
			kept = append(kept, route)
		}
	}
	return r.Sort(kept, sortBy)
}

func containsExcludedMode(segments []models.RouteSegment, excluded map[models.Kind]bool) bool {
	for _, seg := range segments {
		if seg.Kind != models.KindWalk && excluded[seg.Kind] {
			return true
		}
	}
	return false
}

// transferCount counts legs beyond the first non-WALK leg: max(0, nonWalkLegs-1).
func transferCount(legs []models.TripLeg) int {
	nonWalk := 0
	for _, leg := range legs {
		if leg.Kind != models.KindWalk {
			nonWalk++
		}
	}
	if nonWalk == 0 {
		return 0
	}
	return nonWalk - 1
}

// walkingDistance sums the travelled distance of WALK segments by summing
// the haversine length of each consecutive position pair.
func walkingDistance(segments []models.RouteSegment) float64 {
	total := 0.0
	for _, seg := range segments {
		if seg.Kind != models.KindWalk {
			continue
		}
		for i := 1; i < len(seg.Positions); i++ {
			total += haversineKm(seg.Positions[i-1], seg.Positions[i])
		}
	}
	return total
}

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

package routing

import (
	"github.com/paulmach/go.geojson"

	"github.com/commutesg/routecore/internal/models"
)

// SegmentBuilder converts a raw PathStep sequence into polyline-renderable
// RouteSegments, maintaining the continuity invariant that each new segment
// begins where the previous one ended.
type SegmentBuilder struct {
	metadata map[models.NodeID]models.StopMetadata
}

// NewSegmentBuilder returns a SegmentBuilder resolving coordinates against
// metadata. Steps whose endpoint has no metadata entry are skipped rather
// than aborting the whole route.
func NewSegmentBuilder(metadata map[models.NodeID]models.StopMetadata) *SegmentBuilder {
	return &SegmentBuilder{metadata: metadata}
}

// Build turns path into an ordered RouteSegment sequence. Single-point
// segments (no travel actually rendered) are dropped.
func (b *SegmentBuilder) Build(path []models.PathStep) []models.RouteSegment {
	segments := make([]models.RouteSegment, 0, len(path))
	if len(path) == 0 {
		return segments
	}

	firstCoord, ok := b.coord(path[0].From)
	if !ok {
		firstCoord = models.Coordinate{}
	}
	current := models.RouteSegment{
		Kind:      path[0].Kind,
		Service:   path[0].Service,
		Positions: []models.Coordinate{firstCoord},
	}

	for _, step := range path {
		to, ok := b.coord(step.To)
		if !ok {
			continue
		}
		if step.Service != current.Service {
			segments = appendSegment(segments, current)
			last := current.Positions[len(current.Positions)-1]
			current = models.RouteSegment{
				Kind:      step.Kind,
				Service:   step.Service,
				Positions: []models.Coordinate{last, to},
			}
			continue
		}
		current.Positions = append(current.Positions, to)
	}
	segments = appendSegment(segments, current)

	return segments
}

func appendSegment(segments []models.RouteSegment, s models.RouteSegment) []models.RouteSegment {
	if len(s.Positions) < 2 {
		return segments
	}
	return append(segments, s)
}

func (b *SegmentBuilder) coord(id models.NodeID) (models.Coordinate, bool) {
	meta, ok := b.metadata[id]
	if !ok {
		return models.Coordinate{}, false
	}
	return meta.Coordinates, true
}

// ToGeoJSON renders a RouteSegment as a GeoJSON LineString Feature tagged
// with its kind and service, so a caller can hand segments straight to any
// standard map renderer without the core depending on a specific client's
// geometry format.
func ToGeoJSON(segment models.RouteSegment) *geojson.Feature {
	coords := make([][]float64, len(segment.Positions))
	for i, p := range segment.Positions {
		coords[i] = []float64{p.Lng, p.Lat}
	}
	feature := geojson.NewFeature(geojson.NewLineStringGeometry(coords))
	feature.Properties = map[string]interface{}{
		"kind":    string(segment.Kind),
		"service": segment.Service,
	}
	return feature
}

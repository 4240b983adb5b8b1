package routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commutesg/routecore/internal/models"
	"github.com/commutesg/routecore/internal/routing"
)

func segmentFixtureMetadata() map[models.NodeID]models.StopMetadata {
	return map[models.NodeID]models.StopMetadata{
		"A": {Coordinates: models.Coordinate{Lat: 1.30, Lng: 103.80}},
		"B": {Coordinates: models.Coordinate{Lat: 1.31, Lng: 103.80}},
		"C": {Coordinates: models.Coordinate{Lat: 1.32, Lng: 103.80}},
		"D": {Coordinates: models.Coordinate{Lat: 1.33, Lng: 103.80}},
	}
}

func TestSegmentBuilder_ContinuityAcrossServiceChange(t *testing.T) {
	path := []models.PathStep{
		{From: "A", To: "B", Kind: models.KindBus, Service: "10", Weight: 60},
		{From: "B", To: "C", Kind: models.KindBus, Service: "10", Weight: 120},
		{From: "C", To: "D", Kind: models.KindBus, Service: "20", Weight: 90},
	}
	segments := routing.NewSegmentBuilder(segmentFixtureMetadata()).Build(path)

	require.Len(t, segments, 2)
	assert.Equal(t, "10", segments[0].Service)
	assert.Equal(t, "20", segments[1].Service)

	last := segments[0].Positions[len(segments[0].Positions)-1]
	first := segments[1].Positions[0]
	assert.Equal(t, last, first)
}

func TestSegmentBuilder_SkipsStepsWithMissingMetadataWithoutAborting(t *testing.T) {
	path := []models.PathStep{
		{From: "A", To: "X", Kind: models.KindBus, Service: "10", Weight: 60},
		{From: "X", To: "B", Kind: models.KindBus, Service: "10", Weight: 60},
	}
	segments := routing.NewSegmentBuilder(segmentFixtureMetadata()).Build(path)

	require.Len(t, segments, 1)
	assert.Equal(t, []models.Coordinate{
		{Lat: 1.30, Lng: 103.80},
		{Lat: 1.31, Lng: 103.80},
	}, segments[0].Positions)
}

func TestSegmentBuilder_DropsSinglePointSegments(t *testing.T) {
	path := []models.PathStep{
		{From: "A", To: "X", Kind: models.KindBus, Service: "10", Weight: 60},
	}
	segments := routing.NewSegmentBuilder(segmentFixtureMetadata()).Build(path)
	assert.Empty(t, segments)
}

func TestSegmentBuilder_EmptyPathYieldsEmptySegments(t *testing.T) {
	segments := routing.NewSegmentBuilder(segmentFixtureMetadata()).Build(nil)
	assert.Empty(t, segments)
	assert.NotNil(t, segments)
}

func TestToGeoJSON_EncodesLngLatOrderAndProperties(t *testing.T) {
	segment := models.RouteSegment{
		Kind:    models.KindBus,
		Service: "10",
		Positions: []models.Coordinate{
			{Lat: 1.30, Lng: 103.80},
			{Lat: 1.31, Lng: 103.80},
		},
	}
	feature := routing.ToGeoJSON(segment)

	require.Equal(t, "LineString", string(feature.Geometry.Type))
	require.Len(t, feature.Geometry.LineString, 2)
	assert.Equal(t, []float64{103.80, 1.30}, feature.Geometry.LineString[0])
	assert.Equal(t, "10", feature.Properties["service"])
	assert.Equal(t, "BUS", feature.Properties["kind"])
}

package routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commutesg/routecore/internal/models"
	"github.com/commutesg/routecore/internal/routing"
)

func fixtureMetadata() map[models.NodeID]models.StopMetadata {
	return map[models.NodeID]models.StopMetadata{
		"A": {Name: "Stop A"},
		"B": {Name: "Stop B"},
		"C": {Name: "Stop C"},
	}
}

func TestLegCompactor_MergesConsecutiveSameKindService(t *testing.T) {
	path := []models.PathStep{
		{From: "A", To: "B", Kind: models.KindBus, Service: "10", Weight: 60},
		{From: "B", To: "C", Kind: models.KindBus, Service: "10", Weight: 120},
	}
	legs := routing.NewLegCompactor(fixtureMetadata()).Compact(path)

	assert := assert.New(t)
	assert.Len(legs, 1)
	assert.Equal(models.NodeID("A"), legs[0].StartStopID)
	assert.Equal(models.NodeID("C"), legs[0].EndStopID)
	assert.Equal(2, legs[0].StopCount)
	assert.InDelta(180.0, legs[0].Duration, 0.001)
}

func TestLegCompactor_SplitsOnServiceChangeEvenWithSameKind(t *testing.T) {
	path := []models.PathStep{
		{From: "A", To: "B", Kind: models.KindBus, Service: "10", Weight: 60},
		{From: "B", To: "C", Kind: models.KindBus, Service: "20", Weight: 90},
	}
	legs := routing.NewLegCompactor(fixtureMetadata()).Compact(path)

	require := assert.New(t)
	require.Len(legs, 2)
	require.Equal("10", legs[0].Service)
	require.Equal("20", legs[1].Service)
}

func TestLegCompactor_ResolvesSentinelNamesVerbatim(t *testing.T) {
	path := []models.PathStep{
		{From: models.StartSentinel, To: "A", Kind: models.KindWalk, Service: "Start", Weight: 100},
		{From: "A", To: models.EndSentinel, Kind: models.KindWalk, Service: "End", Weight: 50},
	}
	legs := routing.NewLegCompactor(fixtureMetadata()).Compact(path)

	require := assert.New(t)
	require.Len(legs, 2)
	require.Equal(models.CurrentLocationLabel, legs[0].StartStopName)
	require.Equal("Stop A", legs[0].EndStopName)
	require.Equal(models.DestinationLabel, legs[1].EndStopName)
}

func TestLegCompactor_FallsBackToIDWhenMetadataMissing(t *testing.T) {
	path := []models.PathStep{
		{From: "X", To: "Y", Kind: models.KindBus, Service: "10", Weight: 60},
	}
	legs := routing.NewLegCompactor(map[models.NodeID]models.StopMetadata{}).Compact(path)

	require := assert.New(t)
	require.Len(legs, 1)
	require.Equal("X", legs[0].StartStopName)
	require.Equal("Y", legs[0].EndStopName)
}

func TestLegCompactor_EmptyPathYieldsEmptyLegs(t *testing.T) {
	legs := routing.NewLegCompactor(fixtureMetadata()).Compact(nil)
	assert.Empty(t, legs)
	assert.NotNil(t, legs)
}

func TestLegCompactor_IdempotentUnderRecompaction(t *testing.T) {
	path := []models.PathStep{
		{From: "A", To: "B", Kind: models.KindBus, Service: "10", Weight: 60},
		{From: "B", To: "C", Kind: models.KindBus, Service: "20", Weight: 90},
	}
	compactor := routing.NewLegCompactor(fixtureMetadata())
	first := compactor.Compact(path)

	// Re-compacting a leg sequence recast as path steps must be a no-op:
	// each leg collapses to a single step of its own (kind, service).
	reinflated := make([]models.PathStep, len(first))
	for i, leg := range first {
		reinflated[i] = models.PathStep{
			From: leg.StartStopID, To: leg.EndStopID,
			Kind: leg.Kind, Service: leg.Service, Weight: leg.Duration,
		}
	}
	second := compactor.Compact(reinflated)
	assert.Equal(t, first, second)
}

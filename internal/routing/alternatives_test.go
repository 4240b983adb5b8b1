package routing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commutesg/routecore/internal/graphdata"
	"github.com/commutesg/routecore/internal/models"
	"github.com/commutesg/routecore/internal/routing"
)

func TestAlternativeGenerator_DistinctFastestAndDirect(t *testing.T) {
	store := newFixtureGraph(t)
	pf := routing.NewPathfinder(store, routing.NewServiceClassifier())
	gen := routing.NewAlternativeGenerator(pf)

	candidates, err := gen.Generate(context.Background(), nodeEndpoint("A"), nodeEndpoint("D"), nil)
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	assert.Equal(t, "fastest", candidates[0].ID)
	assert.Len(t, candidates[0].Path, 3)
	assert.Equal(t, "direct", candidates[1].ID)
	assert.Len(t, candidates[1].Path, 1)
}

func TestAlternativeGenerator_DropsDirectWhenIdenticalToFastest(t *testing.T) {
	store := graphdata.New()
	graph := models.TransitGraph{
		"A": {"B": []models.Edge{{Service: "10", Weight: 60}}},
		"B": {"D": []models.Edge{{Service: "30", Weight: 180}}},
		"D": {},
	}
	store.Replace(graph, map[models.NodeID]models.StopMetadata{})

	pf := routing.NewPathfinder(store, routing.NewServiceClassifier())
	gen := routing.NewAlternativeGenerator(pf)

	candidates, err := gen.Generate(context.Background(), nodeEndpoint("A"), nodeEndpoint("D"), nil)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "fastest", candidates[0].ID)
}

func TestAlternativeGenerator_FailsWhenFastestFails(t *testing.T) {
	store := graphdata.New()
	store.Replace(models.TransitGraph{"A": {}, "D": {}}, map[models.NodeID]models.StopMetadata{})

	pf := routing.NewPathfinder(store, routing.NewServiceClassifier())
	gen := routing.NewAlternativeGenerator(pf)

	_, err := gen.Generate(context.Background(), nodeEndpoint("A"), nodeEndpoint("D"), nil)
	assert.ErrorIs(t, err, models.ErrNoPathFound)
}

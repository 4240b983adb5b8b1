package graphdata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commutesg/routecore/internal/graphdata"
	"github.com/commutesg/routecore/internal/models"
)

type stubClassifier struct{}

func (stubClassifier) Classify(service string) models.Kind {
	if service == "WALK" {
		return models.KindWalk
	}
	return models.KindBus
}

func TestStore_Load_ImputesMissingKind(t *testing.T) {
	dir := t.TempDir()

	graphPath := filepath.Join(dir, "transit_graph.json")
	metaPath := filepath.Join(dir, "stops_metadata.json")

	graphJSON := `{
		"A": {"B": [{"service": "10", "distance": 1.0, "weight": 60}]},
		"B": {}
	}`
	metaJSON := `{
		"A": {"name": "A", "road": "Main St", "lat": 1.3, "lng": 103.8},
		"B": {"name": "B", "road": "Second St", "lat": 1.31, "lng": 103.81}
	}`

	require.NoError(t, os.WriteFile(graphPath, []byte(graphJSON), 0o644))
	require.NoError(t, os.WriteFile(metaPath, []byte(metaJSON), 0o644))

	s := graphdata.New()
	require.NoError(t, s.Load(graphPath, metaPath, stubClassifier{}))

	assert.True(t, s.IsLoaded())
	adj := s.Neighbours("A")
	require.Len(t, adj["B"], 1)
	assert.Equal(t, models.KindBus, adj["B"][0].Kind)

	meta, ok := s.Metadata("B")
	require.True(t, ok)
	assert.Equal(t, "Second St", meta.Road)
	assert.InDelta(t, 1.31, meta.Coordinates.Lat, 1e-9)
}

func TestStore_Load_PreservesExplicitKind(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "transit_graph.json")
	metaPath := filepath.Join(dir, "stops_metadata.json")

	require.NoError(t, os.WriteFile(graphPath, []byte(`{
		"A": {"B": [{"service": "WALK", "distance": 0.1, "weight": 90, "kind": "WALK"}]}
	}`), 0o644))
	require.NoError(t, os.WriteFile(metaPath, []byte(`{}`), 0o644))

	s := graphdata.New()
	require.NoError(t, s.Load(graphPath, metaPath, stubClassifier{}))

	adj := s.Neighbours("A")
	require.Len(t, adj["B"], 1)
	assert.Equal(t, models.KindWalk, adj["B"][0].Kind)
}

func TestStore_Load_MissingFileErrors(t *testing.T) {
	s := graphdata.New()
	err := s.Load("/nonexistent/transit_graph.json", "/nonexistent/stops_metadata.json", stubClassifier{})
	assert.Error(t, err)
}

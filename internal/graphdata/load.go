package graphdata

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/commutesg/routecore/internal/models"
)

// KindClassifier imputes an Edge's Kind from its Service string when the
// loaded graph file omits it. internal/routing.ServiceClassifier satisfies
// this.
type KindClassifier interface {
	Classify(service string) models.Kind
}

// Load reads a transit_graph.json file and a stops_metadata.json file from
// disk and installs them into the Store, imputing any absent Edge.Kind via
// classifier. Uses goccy/go-json rather than encoding/json: both files are
// decoded whole into memory in one call, which is exactly the bulk-unmarshal
// case goccy is faster at.
func (s *Store) Load(graphPath, metadataPath string, classifier KindClassifier) error {
	graphBytes, err := os.ReadFile(graphPath)
	if err != nil {
		return fmt.Errorf("graphdata: reading %s: %w", graphPath, err)
	}

	var graph models.TransitGraph
	if err := json.Unmarshal(graphBytes, &graph); err != nil {
		return fmt.Errorf("graphdata: parsing %s: %w", graphPath, err)
	}

	for node, adjacency := range graph {
		for neighbour, edges := range adjacency {
			for i, edge := range edges {
				if edge.Kind == "" && classifier != nil {
					edges[i].Kind = classifier.Classify(edge.Service)
				}
			}
			graph[node][neighbour] = edges
		}
	}

	metaBytes, err := os.ReadFile(metadataPath)
	if err != nil {
		return fmt.Errorf("graphdata: reading %s: %w", metadataPath, err)
	}

	var meta map[models.NodeID]models.StopMetadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return fmt.Errorf("graphdata: parsing %s: %w", metadataPath, err)
	}

	s.Replace(graph, meta)
	return nil
}

package routing

import (
	"strings"

	"github.com/commutesg/routecore/internal/models"
)

// mrtPrefixes are service codes that identify a Singapore MRT line by
// their leading characters (North-South, East-West, North-East, Circle,
// Downtown, Thomson-East Coast).
var mrtPrefixes = []string{"NSL", "EWL", "NEL", "CCL", "DTL", "TEL"}

// lrtMarkers are substrings or suffixes that identify an LRT service
// (Bukit Panjang, Sengkang, Punggol light rail).
var lrtMarkers = []string{"BPLrt", "SKLrt", "PGLrt", "LRT"}

// ServiceClassifier turns a bare service code into a Kind when a graph
// edge's explicit Kind is absent.
type ServiceClassifier struct{}

// NewServiceClassifier returns a ready-to-use classifier. It carries no
// state; Classify is a pure function of its argument.
func NewServiceClassifier() ServiceClassifier {
	return ServiceClassifier{}
}

// Classify maps a service code to a Kind. Rule order matters: the MRT
// prefix test runs before the LRT substring test, so a code that starts
// with an MRT prefix is classified MRT even if it also contains an LRT
// marker.
func (ServiceClassifier) Classify(service string) models.Kind {
	if service == "WALK" {
		return models.KindWalk
	}

	for _, prefix := range mrtPrefixes {
		if strings.HasPrefix(service, prefix) {
			return models.KindMRT
		}
	}

	for _, marker := range lrtMarkers {
		if strings.Contains(service, marker) || strings.HasSuffix(service, "LRT") {
			return models.KindLRT
		}
	}

	return models.KindBus
}

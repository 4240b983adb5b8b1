package routing

import (
	"context"

	"github.com/commutesg/routecore/internal/models"
)

// directTransferPenalty is the transferPenalty Pathfinder runs with to bias
// its second search toward fewer transfers.
const directTransferPenalty = 600.0

// pathSearcher is the subset of Pathfinder AlternativeGenerator depends on.
type pathSearcher interface {
	FindPath(ctx context.Context, origin, destination models.Endpoint, excludedModes []models.Kind, transferPenalty float64) (models.RouteCandidate, error)
}

// AlternativeGenerator runs Pathfinder up to twice per request — once
// unbiased ("fastest") and once biased toward fewer transfers ("direct") —
// and discards the second candidate if it reconstructs to the same edge
// sequence as the first.
type AlternativeGenerator struct {
	pathfinder pathSearcher
}

// NewAlternativeGenerator returns an AlternativeGenerator over pathfinder.
func NewAlternativeGenerator(pathfinder pathSearcher) *AlternativeGenerator {
	return &AlternativeGenerator{pathfinder: pathfinder}
}

// Generate returns one or two candidates: "fastest" always first if the
// search succeeds, then "direct" only when it succeeds and is structurally
// distinct from "fastest". If the fastest search fails, Generate returns its
// error and no candidates.
func (g *AlternativeGenerator) Generate(ctx context.Context, origin, destination models.Endpoint, excludedModes []models.Kind) ([]models.RouteCandidate, error) {
	fastest, err := g.pathfinder.FindPath(ctx, origin, destination, excludedModes, 0)
	if err != nil {
		return nil, err
	}
	fastest.ID = "fastest"
	fastest.Label = "Fastest"

	candidates := []models.RouteCandidate{fastest}

	direct, err := g.pathfinder.FindPath(ctx, origin, destination, excludedModes, directTransferPenalty)
	if err == nil && !samePath(fastest.Path, direct.Path) {
		direct.ID = "direct"
		direct.Label = "Less Transfers"
		candidates = append(candidates, direct)
	}

	return candidates, nil
}

// samePath reports structural equality between two reconstructed paths:
// same length and pairwise-equal (from, to, service); Direction never
// participates.
func samePath(a, b []models.PathStep) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].From != b[i].From || a[i].To != b[i].To || a[i].Service != b[i].Service {
			return false
		}
	}
	return true
}

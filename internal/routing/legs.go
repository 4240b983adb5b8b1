package routing

import "github.com/commutesg/routecore/internal/models"

// LegCompactor collapses a raw PathStep sequence into the maximal runs of
// consecutive steps sharing both Kind and Service — the unit a rider thinks
// of as "one ride."
type LegCompactor struct {
	metadata map[models.NodeID]models.StopMetadata
}

// NewLegCompactor returns a LegCompactor resolving display names against
// metadata. A nil or incomplete metadata map is tolerated; missing entries
// fall back to the raw NodeID.
func NewLegCompactor(metadata map[models.NodeID]models.StopMetadata) *LegCompactor {
	return &LegCompactor{metadata: metadata}
}

// Compact turns path into an ordered TripLeg sequence. An empty path yields
// an empty (non-nil) slice.
func (c *LegCompactor) Compact(path []models.PathStep) []models.TripLeg {
	legs := make([]models.TripLeg, 0, len(path))
	if len(path) == 0 {
		return legs
	}

	open := c.openLeg(path[0])
	for _, step := range path[1:] {
		if step.Kind == open.Kind && step.Service == open.Service {
			open.EndStopID = step.To
			open.EndStopName = c.name(step.To)
			open.StopCount++
			open.Duration += step.Weight
			continue
		}
		legs = append(legs, open)
		open = c.openLeg(step)
	}
	legs = append(legs, open)

	return legs
}

func (c *LegCompactor) openLeg(step models.PathStep) models.TripLeg {
	return models.TripLeg{
		Kind:          step.Kind,
		Service:       step.Service,
		StartStopID:   step.From,
		StartStopName: c.name(step.From),
		EndStopID:     step.To,
		EndStopName:   c.name(step.To),
		StopCount:     1,
		Duration:      step.Weight,
	}
}

// name resolves id's display name: the virtual sentinels are rewritten to
// their rider-facing labels verbatim; everything else falls back to the bare
// id when metadata has no entry.
func (c *LegCompactor) name(id models.NodeID) string {
	switch id {
	case models.StartSentinel:
		return models.CurrentLocationLabel
	case models.EndSentinel:
		return models.DestinationLabel
	}
	if meta, ok := c.metadata[id]; ok {
		return meta.Name
	}
	return string(id)
}

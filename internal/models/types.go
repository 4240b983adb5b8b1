// Package models defines the shared data model for the transit routing
// core: the graph's node and edge shapes, the stop metadata used for
// geodesic lookups and display names, the path/leg/segment shapes produced
// by a route computation, and the worker's request/response envelopes.
//
// Nothing in this package mutates after construction; RouteCandidate,
// TripLeg, and RouteSegment values are per-query and safe to share across
// goroutines once built.
package models

import "encoding/json"

// Kind is the transport mode of an Edge or a compacted TripLeg/RouteSegment.
type Kind string

const (
	KindBus      Kind = "BUS"
	KindMRT      Kind = "MRT"
	KindLRT      Kind = "LRT"
	KindWalk     Kind = "WALK"
	KindTransfer Kind = "TRANSFER"
)

// NodeID identifies a bus stop, MRT station, or LRT station. Two sentinel
// values, StartSentinel and EndSentinel, are injected by the pathfinder for
// coordinate endpoints and never appear in a loaded TransitGraph.
type NodeID string

const (
	StartSentinel NodeID = "__START__"
	EndSentinel   NodeID = "__END__"

	// CurrentLocationLabel and DestinationLabel are the human-readable
	// names the sentinels are rewritten to before a result crosses the
	// worker boundary.
	CurrentLocationLabel = "Current Location"
	DestinationLabel     = "Destination"
)

// Edge is an immutable traversal from the owning AdjacencyMap's key to a
// neighbour NodeID. Weight is in seconds and excludes any transfer penalty;
// Distance is in the graph-wide distance convention (kilometres by default).
// Kind is optional on the wire; an absent Kind is imputed by the
// ServiceClassifier at load time.
type Edge struct {
	Service   string  `json:"service"`
	Direction *int    `json:"direction,omitempty"`
	Distance  float64 `json:"distance"`
	Weight    float64 `json:"weight"`
	Kind      Kind    `json:"kind,omitempty"`
}

// AdjacencyMap maps a neighbour NodeID to the ordered, non-collapsed list of
// parallel Edges connecting the owner to that neighbour.
type AdjacencyMap map[NodeID][]Edge

// TransitGraph maps every NodeID to its AdjacencyMap. It is read-only once
// loaded; see internal/graphdata.Store for the accessor that wraps it.
type TransitGraph map[NodeID]AdjacencyMap

// Coordinate is a WGS-84 decimal-degree point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// StopMetadata carries the human-facing attributes of a NodeID: its display
// name, the road it sits on, its coordinates, and an optional stop kind
// (independent of Edge.Kind, which describes a service, not a place). The
// wire representation flattens Coordinates into sibling lat/lng fields, so
// StopMetadata defines its own MarshalJSON/UnmarshalJSON below rather than
// relying on struct tags.
type StopMetadata struct {
	Name        string
	Road        string
	Coordinates Coordinate
	Kind        string
}

// stopMetadataWire is the on-disk stops_metadata.json shape:
// {name, road, lat, lng, type?}.
type stopMetadataWire struct {
	Name string  `json:"name"`
	Road string  `json:"road"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Type string  `json:"type,omitempty"`
}

// MarshalJSON implements json.Marshaler, flattening Coordinates to lat/lng.
// Uses encoding/json directly: callers bulk-encoding a whole graph (see
// internal/graphbuild) do so through goccy/go-json, which honors this
// interface the same way the standard library does.
func (m StopMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(stopMetadataWire{
		Name: m.Name,
		Road: m.Road,
		Lat:  m.Coordinates.Lat,
		Lng:  m.Coordinates.Lng,
		Type: m.Kind,
	})
}

// UnmarshalJSON implements json.Unmarshaler, nesting lat/lng into Coordinates.
func (m *StopMetadata) UnmarshalJSON(data []byte) error {
	var wire stopMetadataWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	m.Name = wire.Name
	m.Road = wire.Road
	m.Coordinates = Coordinate{Lat: wire.Lat, Lng: wire.Lng}
	m.Kind = wire.Type
	return nil
}

// PathStep is one edge traversal in a reconstructed route: the Pathfinder's
// raw output unit, before leg compaction or segment building.
type PathStep struct {
	From      NodeID
	To        NodeID
	Kind      Kind
	Service   string
	Direction *int
	Weight    float64
}

// RouteCandidate is a single itinerary: an ordered PathStep sequence plus
// the true (unpenalised) total duration reported to the user.
type RouteCandidate struct {
	ID            string
	Label         string
	Path          []PathStep
	TotalDuration float64
}

// TripLeg is a maximal run of consecutive PathSteps sharing both Kind and
// Service — the unit a rider thinks of as "one ride."
type TripLeg struct {
	Kind          Kind
	Service       string
	StartStopID   NodeID
	StartStopName string
	EndStopID     NodeID
	EndStopName   string
	StopCount     int
	Duration      float64
}

// RouteSegment is the polyline-rendering counterpart of a TripLeg: a maximal
// run of same-Service positions. Consecutive segments share their boundary
// point (RouteSegment[i+1].Positions[0] == RouteSegment[i].Positions[last]).
type RouteSegment struct {
	Kind      Kind
	Service   string
	Positions []Coordinate
}

// SortOption selects the RouteRanker's ordering criterion.
type SortOption string

const (
	SortFastest       SortOption = "FASTEST"
	SortLessTransfers SortOption = "LESS_TRANSFERS"
	SortLessWalking   SortOption = "LESS_WALKING"
)

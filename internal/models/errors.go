package models

import "errors"

// Sentinel errors returned by the routing core. All are surfaced verbatim as
// the "error" field of a RESULT message (see messages.go); the taxonomy is
// kept flat — no HTTP-status wrapping — so callers can match with
// errors.Is instead of parsing strings or status codes.
var (
	// ErrGraphNotLoaded indicates a query arrived before the graph and
	// stop metadata finished loading.
	ErrGraphNotLoaded = errors.New("routing: graph not loaded")

	// ErrUnknownOriginNode indicates a node-id origin is absent from the
	// graph.
	ErrUnknownOriginNode = errors.New("routing: unknown origin node")

	// ErrUnknownDestinationNode indicates a node-id destination is absent
	// from the graph.
	ErrUnknownDestinationNode = errors.New("routing: unknown destination node")

	// ErrNoReachableOriginNodes indicates a coordinate origin has no stop
	// within the nearby-node search radius.
	ErrNoReachableOriginNodes = errors.New("routing: no reachable nodes near origin")

	// ErrNoReachableDestinationNodes indicates a coordinate destination has
	// no stop within the nearby-node search radius.
	ErrNoReachableDestinationNodes = errors.New("routing: no reachable nodes near destination")

	// ErrNoPathFound indicates the search exhausted the graph without
	// reaching the destination.
	ErrNoPathFound = errors.New("routing: no path found")

	// ErrComputationTimedOut indicates the heap-pop iteration cap was
	// exceeded.
	ErrComputationTimedOut = errors.New("routing: computation timed out")

	// ErrPathReconstructionFailed indicates the predecessor chain could not
	// be walked back to the origin within the reconstruction step cap.
	// Callers should treat this identically to ErrNoPathFound.
	ErrPathReconstructionFailed = errors.New("routing: path reconstruction failed")
)

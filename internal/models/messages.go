package models

import (
	"encoding/json"
	"fmt"
)

// Endpoint is either a known NodeID or a geographic coordinate. Exactly one
// of NodeID or Coordinate should be set; IsCoordinate reports which.
type Endpoint struct {
	NodeID     NodeID
	Coordinate *Coordinate
}

// IsCoordinate reports whether the endpoint was given as a lat/lng pair
// rather than a graph NodeID.
func (e Endpoint) IsCoordinate() bool {
	return e.Coordinate != nil
}

// MarshalJSON renders the endpoint as a bare NodeId string or a {lat,lng}
// object.
func (e Endpoint) MarshalJSON() ([]byte, error) {
	if e.Coordinate != nil {
		return json.Marshal(e.Coordinate)
	}
	return json.Marshal(string(e.NodeID))
}

// UnmarshalJSON accepts either a bare string (a NodeId) or a {lat,lng}
// object.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		e.NodeID = NodeID(asString)
		e.Coordinate = nil
		return nil
	}

	var asCoordinate Coordinate
	if err := json.Unmarshal(data, &asCoordinate); err != nil {
		return fmt.Errorf("endpoint must be a NodeId string or a {lat,lng} object: %w", err)
	}
	e.Coordinate = &asCoordinate
	e.NodeID = ""
	return nil
}

// CalculateRequest is the payload of a "CALCULATE" request message: an
// origin/destination pair plus optional modal exclusions and a ranking
// criterion.
type CalculateRequest struct {
	Start         Endpoint   `json:"start"`
	End           Endpoint   `json:"end"`
	ExcludedModes []Kind     `json:"excludedModes,omitempty"`
	Sort          SortOption `json:"sort,omitempty"`
}

// CalculateResult is the success payload of a "RESULT" response message.
type CalculateResult struct {
	Routes []RouteCandidate `json:"routes"`
}

// Response is the envelope returned for one CalculateRequest. Exactly one of
// Result or Error is populated on success/failure respectively; ErrKind
// holds the sentinel error kind so callers can match on it with errors.Is
// after Error has been flattened to a string for transport.
type Response struct {
	Result  *CalculateResult `json:"result,omitempty"`
	Error   string           `json:"error,omitempty"`
	ErrKind error            `json:"-"`
}

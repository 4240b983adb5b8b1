package routing

import (
	"context"

	"github.com/commutesg/routecore/internal/graphdata"
	"github.com/commutesg/routecore/internal/models"
)

const (
	// walkSpeedSecondsPerKm is 3600/5 — a 5 km/h walking speed — used to
	// weight the virtual source/sink edges synthesised for coordinate
	// endpoints.
	walkSpeedSecondsPerKm = 720.0

	// walkPenaltyMultiplier biases the search away from walking when a
	// transit alternative exists.
	walkPenaltyMultiplier = 2.0

	// baseTransferSeconds is charged whenever the incoming and outgoing
	// service differ, on top of any caller-supplied transferPenalty.
	baseTransferSeconds = 300.0

	// nearbyNodeSearchRadiusKm and nearbyNodeSearchLimit bound the virtual
	// source/sink neighbour search for coordinate endpoints.
	nearbyNodeSearchRadiusKm = 0.8
	nearbyNodeSearchLimit    = 5

	// maxHeapPops is a cooperative safety bound on Dijkstra's main loop.
	maxHeapPops = 100000

	// maxReconstructionSteps bounds prev-chain walking to guard against a
	// corrupted chain looping forever.
	maxReconstructionSteps = 2000
)

// classifier is the subset of ServiceClassifier the Pathfinder depends on.
type classifier interface {
	Classify(service string) models.Kind
}

// Pathfinder runs a single-source shortest-path search over a GraphStore
// with context-dependent edge cost: the transfer penalty applied to an
// outgoing edge depends on the service used to reach the current node, not
// just on the edge itself. A plain Dijkstra over the string-keyed NodeID
// graph, with no goal heuristic — there is no coordinate distance to guide
// the search toward, just raw edge weight and transfer cost.
type Pathfinder struct {
	store      *graphdata.Store
	classifier classifier
}

// NewPathfinder returns a Pathfinder over store, classifying edges whose
// Kind is absent with classifier.
func NewPathfinder(store *graphdata.Store, classifier classifier) *Pathfinder {
	return &Pathfinder{store: store, classifier: classifier}
}

// prevEdge records the edge used to reach a node along the current best
// known path, for both reconstruction and transfer-penalty lookups.
type prevEdge struct {
	from    models.NodeID
	edge    models.Edge
	hasPrev bool
}

// FindPath searches for the lowest-cost path from origin to destination.
// transferPenalty is added (on top of the constant base transfer cost)
// whenever a candidate edge's service differs from the service used to
// reach its source node; excludedModes bars BUS/MRT/LRT edges (WALK and
// TRANSFER can never be excluded).
func (pf *Pathfinder) FindPath(ctx context.Context, origin, destination models.Endpoint, excludedModes []models.Kind, transferPenalty float64) (models.RouteCandidate, error) {
	if !pf.store.IsLoaded() {
		return models.RouteCandidate{}, models.ErrGraphNotLoaded
	}

	excluded := make(map[models.Kind]bool, len(excludedModes))
	for _, k := range excludedModes {
		excluded[k] = true
	}

	startNode, startVirtual, err := pf.resolveOrigin(origin)
	if err != nil {
		return models.RouteCandidate{}, err
	}

	endNode, endVirtual, err := pf.resolveDestination(destination)
	if err != nil {
		return models.RouteCandidate{}, err
	}

	dist := map[models.NodeID]float64{startNode: 0}
	prev := map[models.NodeID]prevEdge{}
	expanded := map[models.NodeID]bool{}

	pq := models.NewPriorityQueue()
	pq.Push(startNode, 0)

	pops := 0
	found := false

	for pq.Len() > 0 {
		select {
		case <-ctx.Done():
			return models.RouteCandidate{}, models.ErrComputationTimedOut
		default:
		}

		if pops >= maxHeapPops {
			return models.RouteCandidate{}, models.ErrComputationTimedOut
		}

		u, priority, ok := pq.Pop()
		pops++
		if !ok {
			break
		}
		if priority > dist[u] {
			continue // stale entry
		}
		if expanded[u] {
			continue
		}
		if u == endNode {
			found = true
			break
		}
		expanded[u] = true

		incomingService, hasIncoming := "", false
		if pe, ok := prev[u]; ok && pe.hasPrev {
			incomingService, hasIncoming = pe.edge.Service, true
		}

		for v, edges := range pf.outgoingEdges(u, startVirtual, endVirtual) {
			best, bestCost, any := pf.bestEdge(edges, excluded, incomingService, hasIncoming, transferPenalty)
			if !any {
				continue
			}
			alt := dist[u] + bestCost
			if existing, ok := dist[v]; !ok || alt < existing {
				dist[v] = alt
				prev[v] = prevEdge{from: u, edge: best, hasPrev: true}
				pq.Push(v, alt)
			}
		}
	}

	if !found {
		if _, ok := dist[endNode]; !ok {
			return models.RouteCandidate{}, models.ErrNoPathFound
		}
	}

	return pf.reconstruct(startNode, endNode, prev)
}

// resolveOrigin validates a NodeId endpoint or, for a coordinate endpoint,
// synthesises the __START__ sentinel and its virtual out-edges.
func (pf *Pathfinder) resolveOrigin(origin models.Endpoint) (models.NodeID, models.AdjacencyMap, error) {
	if !origin.IsCoordinate() {
		if !pf.store.HasNode(origin.NodeID) {
			return "", nil, models.ErrUnknownOriginNode
		}
		return origin.NodeID, nil, nil
	}

	nearby := pf.store.FindNearbyNodes(*origin.Coordinate, nearbyNodeSearchRadiusKm, nearbyNodeSearchLimit)
	if len(nearby) == 0 {
		return "", nil, models.ErrNoReachableOriginNodes
	}

	virtual := models.AdjacencyMap{}
	for _, n := range nearby {
		virtual[n.NodeID] = []models.Edge{{
			Service: "Start",
			Weight:  n.DistanceKm * walkSpeedSecondsPerKm,
			Kind:    models.KindWalk,
		}}
	}
	return models.StartSentinel, virtual, nil
}

// resolveDestination validates a NodeId endpoint or, for a coordinate
// endpoint, synthesises the __END__ sentinel and the set of real nodes that
// should be grafted a virtual sink edge while expanding.
func (pf *Pathfinder) resolveDestination(destination models.Endpoint) (models.NodeID, map[models.NodeID]models.Edge, error) {
	if !destination.IsCoordinate() {
		if !pf.store.HasNode(destination.NodeID) {
			return "", nil, models.ErrUnknownDestinationNode
		}
		return destination.NodeID, nil, nil
	}

	nearby := pf.store.FindNearbyNodes(*destination.Coordinate, nearbyNodeSearchRadiusKm, nearbyNodeSearchLimit)
	if len(nearby) == 0 {
		return "", nil, models.ErrNoReachableDestinationNodes
	}

	sinkEdges := make(map[models.NodeID]models.Edge, len(nearby))
	for _, n := range nearby {
		sinkEdges[n.NodeID] = models.Edge{
			Service: "End",
			Weight:  n.DistanceKm * walkSpeedSecondsPerKm,
			Kind:    models.KindWalk,
		}
	}
	return models.EndSentinel, sinkEdges, nil
}

// outgoingEdges returns node u's real adjacency plus any virtual edges
// grafted on for sentinel handling: the __START__ sentinel's precomputed
// fan-out, or a node-to-__END__ sink edge when u is a destination
// neighbour.
func (pf *Pathfinder) outgoingEdges(u models.NodeID, startVirtual models.AdjacencyMap, endVirtual map[models.NodeID]models.Edge) models.AdjacencyMap {
	if u == models.StartSentinel && startVirtual != nil {
		return startVirtual
	}

	adjacency := pf.store.Neighbours(u)

	if sinkEdge, ok := endVirtual[u]; ok {
		merged := make(models.AdjacencyMap, len(adjacency)+1)
		for k, v := range adjacency {
			merged[k] = v
		}
		merged[models.EndSentinel] = append(append([]models.Edge{}, merged[models.EndSentinel]...), sinkEdge)
		return merged
	}

	return adjacency
}

// bestEdge evaluates every parallel edge between u and v and returns the
// one minimising cost: picking by raw weight alone is wrong once transfer
// penalties are context-dependent, so each candidate edge is scored with
// its own transfer cost before comparison.
func (pf *Pathfinder) bestEdge(edges []models.Edge, excluded map[models.Kind]bool, incomingService string, hasIncoming bool, transferPenalty float64) (models.Edge, float64, bool) {
	var best models.Edge
	bestCost := 0.0
	any := false

	for _, e := range edges {
		kind := e.Kind
		if kind == "" {
			kind = pf.classifier.Classify(e.Service)
		}

		if kind != models.KindWalk && kind != models.KindTransfer && excluded[kind] {
			continue
		}

		w := e.Weight
		if e.Service == "WALK" || kind == models.KindWalk {
			w *= walkPenaltyMultiplier
		}

		p := 0.0
		if hasIncoming && incomingService != e.Service {
			p = baseTransferSeconds + transferPenalty
		}

		cost := w + p
		if !any || cost < bestCost {
			best, bestCost, any = e, cost, true
		}
	}

	return best, bestCost, any
}

// reconstruct walks the prev chain from destination back to origin,
// building the forward edge sequence and summing raw (unpenalised) weights
// for the reported totalDuration.
func (pf *Pathfinder) reconstruct(origin, destination models.NodeID, prev map[models.NodeID]prevEdge) (models.RouteCandidate, error) {
	if origin == destination {
		return models.RouteCandidate{Path: []models.PathStep{}, TotalDuration: 0}, nil
	}

	var reversed []models.PathStep
	current := destination
	steps := 0

	for current != origin {
		steps++
		if steps > maxReconstructionSteps {
			return models.RouteCandidate{}, models.ErrPathReconstructionFailed
		}

		pe, ok := prev[current]
		if !ok || !pe.hasPrev {
			return models.RouteCandidate{}, models.ErrNoPathFound
		}

		kind := pe.edge.Kind
		if kind == "" {
			kind = pf.classifier.Classify(pe.edge.Service)
		}

		reversed = append(reversed, models.PathStep{
			From:      pe.from,
			To:        current,
			Kind:      kind,
			Service:   pe.edge.Service,
			Direction: pe.edge.Direction,
			Weight:    pe.edge.Weight,
		})

		current = pe.from
	}

	path := make([]models.PathStep, len(reversed))
	total := 0.0
	for i, step := range reversed {
		path[len(reversed)-1-i] = step
		total += step.Weight
	}

	return models.RouteCandidate{Path: path, TotalDuration: total}, nil
}

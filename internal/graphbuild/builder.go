// Package graphbuild turns the GTFS rows internal/gtfsimport stages into
// Postgres back into the transit_graph.json/stops_metadata.json pair that
// internal/graphdata.Store loads at worker startup. A node is a bus stop or
// station, not a (stop, route) pair: RIDE edges carry the service code
// directly rather than being scoped to a dedicated node per route.
package graphbuild

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goccy/go-json"

	"github.com/commutesg/routecore/internal/models"
	"github.com/commutesg/routecore/internal/routing"
)

const (
	maxWalkDistanceMetres = 500
	walkingSpeedMPS       = 1.4
	transferSeconds       = 180
	minRideSeconds        = 60
	defaultRideSeconds    = 300
)

// Builder reads one agency's staged GTFS rows and assembles the routing
// graph in memory.
type Builder struct {
	db       *pgxpool.Pool
	classify routing.ServiceClassifier
}

// NewBuilder returns a Builder reading from db.
func NewBuilder(db *pgxpool.Pool) *Builder {
	return &Builder{db: db, classify: routing.NewServiceClassifier()}
}

type stagedStop struct {
	ID            string
	Name          string
	Lat           float64
	Lon           float64
	ParentStation string
}

type stagedRoute struct {
	ID        string
	ShortName string
	LongName  string
}

type stagedStopTime struct {
	TripID           string
	StopID           string
	Sequence         int
	ArrivalSeconds   int
	DepartureSeconds int
}

// Build reads agencyID's staged stop/route/trip/stop_time rows and returns
// the resulting graph and stop metadata. Both are safe to hand directly to
// graphdata.Store.Replace or to serialize via WriteGraphFiles.
func (b *Builder) Build(ctx context.Context, agencyID string) (models.TransitGraph, map[models.NodeID]models.StopMetadata, error) {
	stops, err := b.loadStops(ctx, agencyID)
	if err != nil {
		return nil, nil, fmt.Errorf("graphbuild: loading stops: %w", err)
	}
	routes, err := b.loadRoutes(ctx, agencyID)
	if err != nil {
		return nil, nil, fmt.Errorf("graphbuild: loading routes: %w", err)
	}
	tripRoutes, err := b.loadTripRoutes(ctx, agencyID)
	if err != nil {
		return nil, nil, fmt.Errorf("graphbuild: loading trips: %w", err)
	}
	stopTimes, err := b.loadStopTimes(ctx, agencyID)
	if err != nil {
		return nil, nil, fmt.Errorf("graphbuild: loading stop_times: %w", err)
	}

	graph := make(models.TransitGraph, len(stops))
	meta := make(map[models.NodeID]models.StopMetadata, len(stops))
	for _, stop := range stops {
		id := models.NodeID(stop.ID)
		graph[id] = models.AdjacencyMap{}
		meta[id] = models.StopMetadata{
			Name:        stop.Name,
			Coordinates: models.Coordinate{Lat: stop.Lat, Lng: stop.Lon},
		}
	}

	rideEdges := b.buildRideEdges(stopTimes, tripRoutes, routes, graph)
	walkEdges := b.buildWalkEdges(stops, graph)
	transferEdges := b.buildTransferEdges(stops, graph)

	log.Printf("graphbuild: agency %s: %d nodes, %d RIDE, %d WALK, %d TRANSFER edges",
		agencyID, len(stops), rideEdges, walkEdges, transferEdges)

	return graph, meta, nil
}

func (b *Builder) loadStops(ctx context.Context, agencyID string) ([]stagedStop, error) {
	rows, err := b.db.Query(ctx, `
		SELECT id, name, lat, lon, COALESCE(parent_station, '')
		FROM stop WHERE agency_id = $1
	`, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stops []stagedStop
	for rows.Next() {
		var s stagedStop
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon, &s.ParentStation); err != nil {
			return nil, err
		}
		stops = append(stops, s)
	}
	return stops, rows.Err()
}

func (b *Builder) loadRoutes(ctx context.Context, agencyID string) (map[string]stagedRoute, error) {
	rows, err := b.db.Query(ctx, `
		SELECT id, short_name, long_name FROM route WHERE agency_id = $1
	`, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make(map[string]stagedRoute)
	for rows.Next() {
		var r stagedRoute
		if err := rows.Scan(&r.ID, &r.ShortName, &r.LongName); err != nil {
			return nil, err
		}
		routes[r.ID] = r
	}
	return routes, rows.Err()
}

func (b *Builder) loadTripRoutes(ctx context.Context, agencyID string) (map[string]string, error) {
	rows, err := b.db.Query(ctx, `
		SELECT trip_id, route_id FROM trip WHERE agency_id = $1
	`, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tripRoutes := make(map[string]string)
	for rows.Next() {
		var tripID, routeID string
		if err := rows.Scan(&tripID, &routeID); err != nil {
			return nil, err
		}
		tripRoutes[tripID] = routeID
	}
	return tripRoutes, rows.Err()
}

func (b *Builder) loadStopTimes(ctx context.Context, agencyID string) ([]stagedStopTime, error) {
	rows, err := b.db.Query(ctx, `
		SELECT trip_id, stop_id, stop_sequence, arrival_seconds, departure_seconds
		FROM stop_time WHERE agency_id = $1
		ORDER BY trip_id, stop_sequence
	`, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stopTimes []stagedStopTime
	for rows.Next() {
		var st stagedStopTime
		if err := rows.Scan(&st.TripID, &st.StopID, &st.Sequence, &st.ArrivalSeconds, &st.DepartureSeconds); err != nil {
			return nil, err
		}
		stopTimes = append(stopTimes, st)
	}
	return stopTimes, rows.Err()
}

// buildRideEdges connects consecutive stop_times of each trip, writing a
// RIDE edge per plain-stop pair directly into an in-memory AdjacencyMap.
func (b *Builder) buildRideEdges(stopTimes []stagedStopTime, tripRoutes map[string]string, routes map[string]stagedRoute, graph models.TransitGraph) int {
	tripStops := make(map[string][]stagedStopTime)
	var order []string
	for _, st := range stopTimes {
		if _, seen := tripStops[st.TripID]; !seen {
			order = append(order, st.TripID)
		}
		tripStops[st.TripID] = append(tripStops[st.TripID], st)
	}

	count := 0
	for _, tripID := range order {
		stops := tripStops[tripID]
		sort.Slice(stops, func(i, j int) bool { return stops[i].Sequence < stops[j].Sequence })

		routeID := tripRoutes[tripID]
		service := routeID
		if route, ok := routes[routeID]; ok && route.ShortName != "" {
			service = route.ShortName
		}
		kind := b.classify.Classify(service)

		for i := 0; i < len(stops)-1; i++ {
			from, to := stops[i], stops[i+1]
			fromID := models.NodeID(from.StopID)
			toID := models.NodeID(to.StopID)
			if _, ok := graph[fromID]; !ok {
				continue
			}

			weight := float64(defaultRideSeconds)
			if from.DepartureSeconds > 0 && to.ArrivalSeconds > from.DepartureSeconds {
				weight = float64(to.ArrivalSeconds - from.DepartureSeconds)
			}
			if weight < minRideSeconds {
				weight = minRideSeconds
			}

			graph[fromID][toID] = append(graph[fromID][toID], models.Edge{
				Service: service,
				Weight:  weight,
				Kind:    kind,
			})
			count++
		}
	}
	return count
}

// buildWalkEdges connects every stop pair within maxWalkDistanceMetres,
// scanning all-pairs haversine distance in Go rather than issuing a
// PostGIS query.
func (b *Builder) buildWalkEdges(stops []stagedStop, graph models.TransitGraph) int {
	count := 0
	for i, from := range stops {
		for j, to := range stops {
			if i == j {
				continue
			}
			distance := haversineMetres(from.Lat, from.Lon, to.Lat, to.Lon)
			if distance > maxWalkDistanceMetres {
				continue
			}
			fromID := models.NodeID(from.ID)
			toID := models.NodeID(to.ID)
			graph[fromID][toID] = append(graph[fromID][toID], models.Edge{
				Service:  "WALK",
				Distance: distance / 1000.0,
				Weight:   distance / walkingSpeedMPS,
				Kind:     models.KindWalk,
			})
			count++
		}
	}
	return count
}

// buildTransferEdges connects sibling platforms sharing a parent_station:
// since a node is a single stop rather than a (stop, route) pair, there is
// nothing left to transfer between at the same node, so the transfer edge
// instead joins distinct stops registered under the same interchange.
func (b *Builder) buildTransferEdges(stops []stagedStop, graph models.TransitGraph) int {
	byParent := make(map[string][]stagedStop)
	for _, stop := range stops {
		if stop.ParentStation == "" {
			continue
		}
		byParent[stop.ParentStation] = append(byParent[stop.ParentStation], stop)
	}

	count := 0
	for _, siblings := range byParent {
		for i, from := range siblings {
			for j, to := range siblings {
				if i == j {
					continue
				}
				fromID := models.NodeID(from.ID)
				toID := models.NodeID(to.ID)
				graph[fromID][toID] = append(graph[fromID][toID], models.Edge{
					Service: "TRANSFER",
					Weight:  transferSeconds,
					Kind:    models.KindTransfer,
				})
				count++
			}
		}
	}
	return count
}

func haversineMetres(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000.0

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// WriteGraphFiles serializes graph and meta to the transit_graph.json and
// stops_metadata.json files, using goccy/go-json for the same bulk-encode
// reason internal/graphdata.Load uses it for decoding.
func WriteGraphFiles(graphPath, metaPath string, graph models.TransitGraph, meta map[models.NodeID]models.StopMetadata) error {
	graphBytes, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return fmt.Errorf("graphbuild: encoding graph: %w", err)
	}
	if err := writeFile(graphPath, graphBytes); err != nil {
		return err
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("graphbuild: encoding metadata: %w", err)
	}
	return writeFile(metaPath, metaBytes)
}

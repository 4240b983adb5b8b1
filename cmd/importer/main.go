package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/commutesg/routecore/internal/db"
	"github.com/commutesg/routecore/internal/gtfsimport"
)

func main() {
	agencyID := flag.String("agency-id", "", "Agency ID for this GTFS feed (required)")
	gtfsPath := flag.String("gtfs", "", "Path to GTFS ZIP file (required)")
	dedupeThreshold := flag.Float64("dedupe-threshold", 30.0, "Stop deduplication threshold in meters")

	flag.Parse()

	if *agencyID == "" || *gtfsPath == "" {
		fmt.Println("Usage: routecore-import --agency-id=<id> --gtfs=<path.zip> [--dedupe-threshold=30]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if _, err := os.Stat(*gtfsPath); os.IsNotExist(err) {
		log.Fatalf("GTFS file not found: %s", *gtfsPath)
	}

	log.Println("Starting GTFS import...")
	log.Printf("Agency ID: %s", *agencyID)
	log.Printf("GTFS file: %s", *gtfsPath)

	pool, err := db.GetDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if err := ensureStagingSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure staging schema: %v", err)
	}

	if err := runImport(ctx, pool, *agencyID, *gtfsPath, *dedupeThreshold); err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Println("Import completed successfully!")
}

func runImport(ctx context.Context, pool *pgxpool.Pool, agencyID, gtfsPath string, dedupeThreshold float64) error {
	startTime := time.Now()

	log.Println("Step 1/5: Parsing GTFS feed...")
	feed, err := gtfsimport.ParseZip(gtfsPath)
	if err != nil {
		return fmt.Errorf("failed to parse GTFS: %w", err)
	}

	log.Println("Step 2/5: Validating and cleaning stops...")
	feed.Stops = gtfsimport.ValidateAndCleanStops(feed.Stops)

	log.Println("Step 3/5: Deduplicating stops...")
	var stopMapping map[string]string
	feed.Stops, stopMapping = gtfsimport.DeduplicateStops(feed.Stops, dedupeThreshold)
	for i := range feed.StopTimes {
		if newID, ok := stopMapping[feed.StopTimes[i].StopID]; ok {
			feed.StopTimes[i].StopID = newID
		}
	}

	log.Println("Step 4/5: Interpolating missing stop_times...")
	feed.StopTimes = gtfsimport.InterpolateStopTimes(feed.StopTimes)

	log.Println("Step 5/5: Staging stops, routes, trips, and stop_times...")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := stageStops(ctx, tx, agencyID, feed.Stops); err != nil {
		return fmt.Errorf("failed to stage stops: %w", err)
	}
	if err := stageRoutes(ctx, tx, agencyID, feed.Routes); err != nil {
		return fmt.Errorf("failed to stage routes: %w", err)
	}
	if err := stageTrips(ctx, tx, agencyID, feed.Trips); err != nil {
		return fmt.Errorf("failed to stage trips: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Staging %d stop_times...", len(feed.StopTimes))
	if err := stageStopTimesChunked(ctx, pool, agencyID, feed.StopTimes); err != nil {
		return fmt.Errorf("failed to stage stop_times: %w", err)
	}

	log.Printf("Import completed in %s (%d stops, %d routes, %d trips, %d stop_times)",
		time.Since(startTime), len(feed.Stops), len(feed.Routes), len(feed.Trips), len(feed.StopTimes))

	return nil
}

func ensureStagingSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS stop (
			id TEXT NOT NULL,
			agency_id TEXT NOT NULL,
			name TEXT,
			lat DOUBLE PRECISION,
			lon DOUBLE PRECISION,
			parent_station TEXT,
			PRIMARY KEY (agency_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS route (
			id TEXT NOT NULL,
			agency_id TEXT NOT NULL,
			short_name TEXT,
			long_name TEXT,
			route_type INT,
			PRIMARY KEY (agency_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS trip (
			trip_id TEXT NOT NULL,
			agency_id TEXT NOT NULL,
			route_id TEXT NOT NULL,
			headsign TEXT,
			direction INT,
			PRIMARY KEY (agency_id, trip_id)
		)`,
		`CREATE TABLE IF NOT EXISTS stop_time (
			trip_id TEXT NOT NULL,
			agency_id TEXT NOT NULL,
			stop_id TEXT NOT NULL,
			stop_sequence INT NOT NULL,
			arrival_time TEXT,
			departure_time TEXT,
			arrival_seconds INT,
			departure_seconds INT,
			PRIMARY KEY (agency_id, trip_id, stop_sequence)
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func stageStops(ctx context.Context, tx pgx.Tx, agencyID string, stops []gtfsimport.Stop) error {
	batch := &pgx.Batch{}
	for _, stop := range stops {
		batch.Queue(`
			INSERT INTO stop (id, agency_id, name, lat, lon, parent_station)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (agency_id, id) DO UPDATE
			SET name = EXCLUDED.name, lat = EXCLUDED.lat, lon = EXCLUDED.lon,
			    parent_station = EXCLUDED.parent_station
		`, stop.StopID, agencyID, stop.StopName, stop.Lat, stop.Lon, stop.ParentStation)
	}
	return execBatch(ctx, tx, batch, "stop")
}

func stageRoutes(ctx context.Context, tx pgx.Tx, agencyID string, routes []gtfsimport.Route) error {
	batch := &pgx.Batch{}
	for _, route := range routes {
		batch.Queue(`
			INSERT INTO route (id, agency_id, short_name, long_name, route_type)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (agency_id, id) DO UPDATE
			SET short_name = EXCLUDED.short_name, long_name = EXCLUDED.long_name,
			    route_type = EXCLUDED.route_type
		`, route.RouteID, agencyID, route.ShortName, route.LongName, route.RouteType)
	}
	return execBatch(ctx, tx, batch, "route")
}

func stageTrips(ctx context.Context, tx pgx.Tx, agencyID string, trips []gtfsimport.Trip) error {
	batch := &pgx.Batch{}
	for _, trip := range trips {
		batch.Queue(`
			INSERT INTO trip (trip_id, agency_id, route_id, headsign, direction)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (agency_id, trip_id) DO UPDATE
			SET route_id = EXCLUDED.route_id, headsign = EXCLUDED.headsign,
			    direction = EXCLUDED.direction
		`, trip.TripID, agencyID, trip.RouteID, trip.Headsign, trip.Direction)
	}
	return execBatch(ctx, tx, batch, "trip")
}

func stageStopTimesChunked(ctx context.Context, pool *pgxpool.Pool, agencyID string, stopTimes []gtfsimport.StopTime) error {
	const chunkSize = 50000
	total := len(stopTimes)

	for start := 0; start < total; start += chunkSize {
		end := start + chunkSize
		if end > total {
			end = total
		}
		chunk := stopTimes[start:end]

		tx, err := pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin tx at offset %d: %w", start, err)
		}

		batch := &pgx.Batch{}
		for _, st := range chunk {
			arrSec, _ := gtfsimport.ParseTimeToSeconds(st.ArrivalTime)
			depSec, _ := gtfsimport.ParseTimeToSeconds(st.DepartureTime)

			batch.Queue(`
				INSERT INTO stop_time (trip_id, agency_id, stop_id, stop_sequence,
					arrival_time, departure_time, arrival_seconds, departure_seconds)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (agency_id, trip_id, stop_sequence) DO UPDATE
				SET stop_id = EXCLUDED.stop_id, arrival_time = EXCLUDED.arrival_time,
				    departure_time = EXCLUDED.departure_time,
				    arrival_seconds = EXCLUDED.arrival_seconds,
				    departure_seconds = EXCLUDED.departure_seconds
			`, st.TripID, agencyID, st.StopID, st.StopSequence,
				st.ArrivalTime, st.DepartureTime, arrSec, depSec)
		}

		if err := execBatch(ctx, tx, batch, "stop_time"); err != nil {
			tx.Rollback(ctx)
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit stop_times chunk at %d: %w", start, err)
		}

		log.Printf("  staged stop_times %d-%d / %d", start+1, end, total)
	}

	return nil
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, table string) error {
	if batch.Len() == 0 {
		return nil
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to stage %s row %d: %w", table, i, err)
		}
	}
	return nil
}

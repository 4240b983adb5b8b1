package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/commutesg/routecore/internal/db"
	"github.com/commutesg/routecore/internal/graphbuild"
)

func main() {
	agencyID := flag.String("agency-id", "", "Agency ID to rebuild the graph for (required)")
	graphOut := flag.String("graph-out", "transit_graph.json", "Output path for the graph file")
	metaOut := flag.String("meta-out", "stops_metadata.json", "Output path for the stop metadata file")
	flag.Parse()

	if *agencyID == "" {
		log.Fatal("rebuild-graph: --agency-id is required")
	}

	log.Println("Connecting to database...")
	pool, err := db.GetDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	var stopCount, routeCount, tripCount int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM stop WHERE agency_id = $1", *agencyID).Scan(&stopCount); err != nil {
		log.Fatalf("Failed to count staged stops: %v", err)
	}
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM route WHERE agency_id = $1", *agencyID).Scan(&routeCount); err != nil {
		log.Fatalf("Failed to count staged routes: %v", err)
	}
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM trip WHERE agency_id = $1", *agencyID).Scan(&tripCount); err != nil {
		log.Fatalf("Failed to count staged trips: %v", err)
	}

	log.Printf("Staged rows for agency %s: %d stops, %d routes, %d trips", *agencyID, stopCount, routeCount, tripCount)
	if stopCount == 0 || routeCount == 0 || tripCount == 0 {
		log.Fatal("No staged GTFS data found for this agency. Run the importer first.")
	}

	log.Println("Building graph...")
	startTime := time.Now()

	builder := graphbuild.NewBuilder(pool)
	graph, meta, err := builder.Build(ctx, *agencyID)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	if err := graphbuild.WriteGraphFiles(*graphOut, *metaOut, graph, meta); err != nil {
		log.Fatalf("Failed to write graph files: %v", err)
	}

	log.Printf("Graph rebuild completed in %s", time.Since(startTime))
	log.Printf("Wrote %d nodes to %s and %s", len(graph), *graphOut, *metaOut)
}

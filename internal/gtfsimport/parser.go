package gtfsimport

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseZip extracts a GTFS ZIP to a scratch directory and parses every
// table it recognizes. agency.txt is optional; the remaining four tables
// are required by the GTFS static spec and a missing one aborts the parse.
func ParseZip(zipPath string) (*Feed, error) {
	tempDir, err := os.MkdirTemp("", "gtfs-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if err := extractZip(zipPath, tempDir); err != nil {
		return nil, fmt.Errorf("failed to extract zip: %w", err)
	}

	feed := &Feed{}

	if agencies, err := ParseAgencies(filepath.Join(tempDir, "agency.txt")); err == nil {
		feed.Agencies = agencies
		log.Printf("parsed %d agencies", len(agencies))
	} else {
		log.Printf("warning: failed to parse agencies: %v", err)
	}

	stops, err := ParseStops(filepath.Join(tempDir, "stops.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse stops (required): %w", err)
	}
	feed.Stops = stops
	log.Printf("parsed %d stops", len(stops))

	routes, err := ParseRoutes(filepath.Join(tempDir, "routes.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse routes (required): %w", err)
	}
	feed.Routes = routes
	log.Printf("parsed %d routes", len(routes))

	trips, err := ParseTrips(filepath.Join(tempDir, "trips.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse trips (required): %w", err)
	}
	feed.Trips = trips
	log.Printf("parsed %d trips", len(trips))

	stopTimes, err := ParseStopTimes(filepath.Join(tempDir, "stop_times.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse stop_times (required): %w", err)
	}
	feed.StopTimes = stopTimes
	log.Printf("parsed %d stop_times", len(stopTimes))

	return feed, nil
}

// ParseAgencies parses agency.txt.
func ParseAgencies(filePath string) ([]Agency, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseAgenciesFromReader(file)
}

func parseAgenciesFromReader(reader io.Reader) ([]Agency, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	colMap := makeColumnMap(header)

	var agencies []Agency
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("warning: skipping malformed agency row: %v", err)
			continue
		}
		agencies = append(agencies, Agency{
			AgencyID:   getField(record, colMap, "agency_id"),
			AgencyName: getField(record, colMap, "agency_name"),
			AgencyURL:  getField(record, colMap, "agency_url"),
			Timezone:   getField(record, colMap, "agency_timezone"),
		})
	}
	return agencies, nil
}

// ParseStops parses stops.txt.
func ParseStops(filePath string) ([]Stop, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseStopsFromReader(file)
}

func parseStopsFromReader(reader io.Reader) ([]Stop, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	colMap := makeColumnMap(header)

	var stops []Stop
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("warning: skipping malformed stop row: %v", err)
			continue
		}

		stopID := getField(record, colMap, "stop_id")
		latStr := getField(record, colMap, "stop_lat")
		lonStr := getField(record, colMap, "stop_lon")
		if stopID == "" || latStr == "" || lonStr == "" {
			log.Printf("warning: skipping stop with missing required fields: %s", stopID)
			continue
		}

		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			log.Printf("warning: invalid latitude for stop %s: %v", stopID, err)
			continue
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			log.Printf("warning: invalid longitude for stop %s: %v", stopID, err)
			continue
		}

		stops = append(stops, Stop{
			StopID:        stopID,
			StopName:      getField(record, colMap, "stop_name"),
			Lat:           lat,
			Lon:           lon,
			ParentStation: getField(record, colMap, "parent_station"),
		})
	}
	return stops, nil
}

// ParseRoutes parses routes.txt.
func ParseRoutes(filePath string) ([]Route, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseRoutesFromReader(file)
}

func parseRoutesFromReader(reader io.Reader) ([]Route, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	colMap := makeColumnMap(header)

	var routes []Route
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("warning: skipping malformed route row: %v", err)
			continue
		}

		routeID := getField(record, colMap, "route_id")
		if routeID == "" {
			continue
		}
		routeType, _ := strconv.Atoi(getField(record, colMap, "route_type"))

		routes = append(routes, Route{
			RouteID:    routeID,
			AgencyID:   getField(record, colMap, "agency_id"),
			ShortName:  getField(record, colMap, "route_short_name"),
			LongName:   getField(record, colMap, "route_long_name"),
			RouteType:  routeType,
			RouteColor: getField(record, colMap, "route_color"),
		})
	}
	return routes, nil
}

// ParseTrips parses trips.txt.
func ParseTrips(filePath string) ([]Trip, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseTripsFromReader(file)
}

func parseTripsFromReader(reader io.Reader) ([]Trip, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	colMap := makeColumnMap(header)

	var trips []Trip
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("warning: skipping malformed trip row: %v", err)
			continue
		}

		tripID := getField(record, colMap, "trip_id")
		routeID := getField(record, colMap, "route_id")
		if tripID == "" || routeID == "" {
			continue
		}
		direction, _ := strconv.Atoi(getField(record, colMap, "direction_id"))

		trips = append(trips, Trip{
			RouteID:   routeID,
			ServiceID: getField(record, colMap, "service_id"),
			TripID:    tripID,
			Headsign:  getField(record, colMap, "trip_headsign"),
			Direction: direction,
		})
	}
	return trips, nil
}

// ParseStopTimes parses stop_times.txt.
func ParseStopTimes(filePath string) ([]StopTime, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseStopTimesFromReader(file)
}

func parseStopTimesFromReader(reader io.Reader) ([]StopTime, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	colMap := makeColumnMap(header)

	var stopTimes []StopTime
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("warning: skipping malformed stop_time row: %v", err)
			continue
		}

		tripID := getField(record, colMap, "trip_id")
		stopID := getField(record, colMap, "stop_id")
		seqStr := getField(record, colMap, "stop_sequence")
		if tripID == "" || stopID == "" || seqStr == "" {
			continue
		}
		sequence, err := strconv.Atoi(seqStr)
		if err != nil {
			log.Printf("warning: invalid sequence for trip %s: %v", tripID, err)
			continue
		}

		stopTimes = append(stopTimes, StopTime{
			TripID:        tripID,
			ArrivalTime:   getField(record, colMap, "arrival_time"),
			DepartureTime: getField(record, colMap, "departure_time"),
			StopID:        stopID,
			StopSequence:  sequence,
		})
	}
	return stopTimes, nil
}

func makeColumnMap(header []string) map[string]int {
	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	return colMap
}

func getField(record []string, colMap map[string]int, fieldName string) string {
	if idx, ok := colMap[fieldName]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func extractZip(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return err
		}
		destPath := filepath.Join(destDir, filepath.Base(file.Name))
		outFile, err := os.Create(destPath)
		if err != nil {
			rc.Close()
			return err
		}
		_, err = io.Copy(outFile, rc)
		rc.Close()
		outFile.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

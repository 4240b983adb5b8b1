package gtfsimport

import (
	"fmt"
	"log"
	"math"
	"strings"
)

// DeduplicateStops collapses stops within thresholdMeters of one another,
// keeping the first-seen stop of each cluster and returning a mapping from
// every dropped stop's ID to the ID it was folded into. Pure in-memory
// geometry — no database handle required.
func DeduplicateStops(stops []Stop, thresholdMeters float64) ([]Stop, map[string]string) {
	if len(stops) == 0 {
		return stops, make(map[string]string)
	}

	var deduplicated []Stop
	skip := make(map[int]bool)
	mapping := make(map[string]string)

	for i := 0; i < len(stops); i++ {
		if skip[i] {
			continue
		}
		current := stops[i]
		deduplicated = append(deduplicated, current)
		mapping[current.StopID] = current.StopID

		for j := i + 1; j < len(stops); j++ {
			if skip[j] {
				continue
			}
			distance := haversineMetres(current.Lat, current.Lon, stops[j].Lat, stops[j].Lon)
			if distance < thresholdMeters {
				log.Printf("deduplicating stop %s (duplicate of %s, distance: %.2fm)",
					stops[j].StopID, current.StopID, distance)
				skip[j] = true
				mapping[stops[j].StopID] = current.StopID
			}
		}
	}

	log.Printf("deduplicated %d stops to %d (removed %d duplicates)",
		len(stops), len(deduplicated), len(stops)-len(deduplicated))

	return deduplicated, mapping
}

func haversineMetres(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// ParseTimeToSeconds converts a GTFS HH:MM:SS timestamp (hours may exceed
// 23 for next-day service) to seconds past midnight of the service day.
func ParseTimeToSeconds(timeStr string) (int, error) {
	if timeStr == "" {
		return 0, fmt.Errorf("empty time string")
	}
	parts := strings.Split(timeStr, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time format: %s", timeStr)
	}

	var hours, minutes, seconds int
	if _, err := fmt.Sscanf(parts[0], "%d", &hours); err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", timeStr, err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &minutes); err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", timeStr, err)
	}
	if _, err := fmt.Sscanf(parts[2], "%d", &seconds); err != nil {
		return 0, fmt.Errorf("invalid seconds in %q: %w", timeStr, err)
	}

	return hours*3600 + minutes*60 + seconds, nil
}

// InterpolateStopTimes fills missing arrival/departure times within a trip
// by holding over a valid neighbour: stops before the first valid one take
// its times, stops after the last valid one take that stop's times, and
// gaps in between take the preceding stop's departure time. Trips with no
// valid time at all are passed through unchanged.
func InterpolateStopTimes(stopTimes []StopTime) []StopTime {
	if len(stopTimes) == 0 {
		return stopTimes
	}

	tripGroups := make(map[string][]StopTime)
	var order []string
	for _, st := range stopTimes {
		if _, seen := tripGroups[st.TripID]; !seen {
			order = append(order, st.TripID)
		}
		tripGroups[st.TripID] = append(tripGroups[st.TripID], st)
	}

	var interpolated []StopTime
	for _, tripID := range order {
		times := tripGroups[tripID]

		firstValid, lastValid := -1, -1
		for i, st := range times {
			if st.ArrivalTime != "" && st.DepartureTime != "" {
				if firstValid == -1 {
					firstValid = i
				}
				lastValid = i
			}
		}

		if firstValid == -1 {
			log.Printf("warning: trip %s has no valid times, skipping interpolation", tripID)
			interpolated = append(interpolated, times...)
			continue
		}

		for i := range times {
			if times[i].ArrivalTime == "" {
				switch {
				case i < firstValid:
					times[i].ArrivalTime = times[firstValid].ArrivalTime
					times[i].DepartureTime = times[firstValid].DepartureTime
				case i > lastValid:
					times[i].ArrivalTime = times[lastValid].ArrivalTime
					times[i].DepartureTime = times[lastValid].DepartureTime
				default:
					prevValid := firstValid
					for j := i - 1; j >= firstValid; j-- {
						if times[j].ArrivalTime != "" {
							prevValid = j
							break
						}
					}
					times[i].ArrivalTime = times[prevValid].DepartureTime
					times[i].DepartureTime = times[prevValid].DepartureTime
				}
			}
			interpolated = append(interpolated, times[i])
		}
	}

	return interpolated
}

// ValidateAndCleanStops drops stops with out-of-range or null-island
// coordinates.
func ValidateAndCleanStops(stops []Stop) []Stop {
	cleaned := make([]Stop, 0, len(stops))
	for _, stop := range stops {
		if stop.Lat < -90 || stop.Lat > 90 {
			log.Printf("warning: invalid latitude for stop %s: %f", stop.StopID, stop.Lat)
			continue
		}
		if stop.Lon < -180 || stop.Lon > 180 {
			log.Printf("warning: invalid longitude for stop %s: %f", stop.StopID, stop.Lon)
			continue
		}
		if stop.Lat == 0 && stop.Lon == 0 {
			log.Printf("warning: stop %s has null island coordinates, skipping", stop.StopID)
			continue
		}
		cleaned = append(cleaned, stop)
	}

	if len(cleaned) < len(stops) {
		log.Printf("cleaned stops: removed %d invalid stops", len(stops)-len(cleaned))
	}

	return cleaned
}

package gtfsimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStopsFromReader_ParsesRequiredAndOptionalFields(t *testing.T) {
	csv := "stop_id,stop_name,stop_lat,stop_lon,parent_station\n" +
		"S1, Stop One ,1.3000,103.8000,INTERCHANGE_A\n" +
		"S2,Stop Two,1.3100,103.8100,\n"

	stops, err := parseStopsFromReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, stops, 2)

	assert.Equal(t, "S1", stops[0].StopID)
	assert.Equal(t, "Stop One", stops[0].StopName)
	assert.InDelta(t, 1.3000, stops[0].Lat, 0.0001)
	assert.InDelta(t, 103.8000, stops[0].Lon, 0.0001)
	assert.Equal(t, "INTERCHANGE_A", stops[0].ParentStation)
	assert.Empty(t, stops[1].ParentStation)
}

func TestParseStopsFromReader_SkipsRowsMissingRequiredFields(t *testing.T) {
	csv := "stop_id,stop_name,stop_lat,stop_lon\n" +
		"S1,Stop One,1.3000,103.8000\n" +
		",Missing ID,1.31,103.81\n" +
		"S3,Bad Lat,notalat,103.82\n"

	stops, err := parseStopsFromReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, "S1", stops[0].StopID)
}

func TestParseRoutesFromReader_ParsesRouteTypeAndSkipsMissingID(t *testing.T) {
	csv := "route_id,agency_id,route_short_name,route_long_name,route_type,route_color\n" +
		"R1,A1,10,Ten Line,3,FF0000\n" +
		",A1,Bad,Bad Row,3,\n"

	routes, err := parseRoutesFromReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "R1", routes[0].RouteID)
	assert.Equal(t, 3, routes[0].RouteType)
	assert.Equal(t, "10", routes[0].ShortName)
}

func TestParseTripsFromReader_RequiresTripAndRouteID(t *testing.T) {
	csv := "route_id,service_id,trip_id,trip_headsign,direction_id\n" +
		"R1,WKDY,T1,Downtown,0\n" +
		"R1,WKDY,,Missing Trip ID,1\n"

	trips, err := parseTripsFromReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "T1", trips[0].TripID)
	assert.Equal(t, 0, trips[0].Direction)
}

func TestParseStopTimesFromReader_ParsesSequenceAndSkipsInvalid(t *testing.T) {
	csv := "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"T1,08:00:00,08:00:30,S1,1\n" +
		"T1,08:05:00,08:05:30,S2,2\n" +
		"T1,08:10:00,08:10:30,S3,notanumber\n"

	stopTimes, err := parseStopTimesFromReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, stopTimes, 2)
	assert.Equal(t, 1, stopTimes[0].StopSequence)
	assert.Equal(t, 2, stopTimes[1].StopSequence)
}

func TestParseAgenciesFromReader_ParsesAllFields(t *testing.T) {
	csv := "agency_id,agency_name,agency_url,agency_timezone\n" +
		"A1,Transit Authority,https://example.com,Asia/Singapore\n"

	agencies, err := parseAgenciesFromReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, agencies, 1)
	assert.Equal(t, "A1", agencies[0].AgencyID)
	assert.Equal(t, "Asia/Singapore", agencies[0].Timezone)
}

func TestMakeColumnMap_TrimsHeaderWhitespace(t *testing.T) {
	colMap := makeColumnMap([]string{"stop_id", " stop_name", "stop_lat "})
	assert.Equal(t, 0, colMap["stop_id"])
	assert.Equal(t, 1, colMap["stop_name"])
	assert.Equal(t, 2, colMap["stop_lat"])
}

func TestGetField_ReturnsEmptyForUnknownColumn(t *testing.T) {
	colMap := map[string]int{"stop_id": 0}
	assert.Equal(t, "", getField([]string{"S1"}, colMap, "stop_name"))
	assert.Equal(t, "S1", getField([]string{"S1"}, colMap, "stop_id"))
}

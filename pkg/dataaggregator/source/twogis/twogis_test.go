package twogis

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/http_client"
)

var (
	origin      = ctdf.Location{Latitude: 43.2000, Longitude: 76.9000}
	destination = ctdf.Location{Latitude: 43.2500, Longitude: 76.9500}
)

const tripResponse = `[
  {
    "id": "1",
    "total_distance": 5000,
    "total_duration": 1500,
    "transfer_count": 1,
    "waypoints": [
      {"combined": false, "routes_names": ["12"], "subtype": "bus", "location": {"lat": 43.2100, "lon": 76.9100}},
      {"combined": false, "routes_names": ["12"], "subtype": "bus", "location": {"lat": 43.2200, "lon": 76.9200}},
      {"combined": false, "routes_names": ["M1"], "subtype": "metro", "location": {"lat": 43.2300, "lon": 76.9300}},
      {"combined": false, "routes_names": ["M1"], "subtype": "metro", "location": {"lat": 43.2400, "lon": 76.9400}},
      {"combined": false, "routes_names": [], "subtype": "bus", "location": null}
    ],
    "movements": [
      {"id": "m1", "type": "walkway", "distance": 300, "moving_duration": 240, "waiting_duration": 0, "waypoint": {"subtype": "pedestrian", "name": "Start"}},
      {"id": "m2", "type": "passage", "distance": 2000, "moving_duration": 500, "waiting_duration": 60, "waypoint": {"subtype": "bus", "name": "12", "location": {"lat": 43.2100, "lon": 76.9100}}},
      {"id": "m3", "type": "transfer", "distance": 50, "moving_duration": 60, "waiting_duration": 0, "waypoint": {"subtype": "pedestrian", "name": "Transfer", "comment": "go down", "location": {"lat": 43.22005, "lon": 76.92005}}},
      {"id": "m4", "type": "passage", "distance": 2500, "moving_duration": 500, "waiting_duration": 0, "waypoint": {"subtype": "metro", "name": "M1", "location": {"lat": 43.2300, "lon": 76.9300}}},
      {"id": "m5", "type": "walkway", "distance": 150, "moving_duration": 120, "waiting_duration": 0, "waypoint": {"subtype": "pedestrian", "name": "End"}}
    ]
  },
  "not a variant",
  {
    "id": "3",
    "total_distance": 4000,
    "total_duration": 900,
    "waypoints": [],
    "movements": [
      {"type": "passage", "waypoint": {"location": {"lat": 43.2100, "lon": 76.9100}}},
      {"type": "passage", "waypoint": {"location": {"lat": 43.21005, "lon": 76.91005}}},
      {"type": "passage", "distance": "broken"}
    ]
  }
]`

func testSource(t *testing.T, handler http.HandlerFunc) Source {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := http_client.New(time.Second, 0)
	return Source{Transport: client, BaseURL: server.URL, Key: "test-key"}
}

func TestFetchRequest(t *testing.T) {
	s := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var request map[string]interface{}
		assert.NoError(t, json.Unmarshal(body, &request))

		assert.Equal(t, "ru", request["locale"])
		assert.Equal(t, []interface{}{"metro", "tram"}, request["transport"])
		assert.Equal(t, map[string]interface{}{"lat": 43.2, "lon": 76.9}, request["source"].(map[string]interface{})["point"])

		w.Write([]byte(tripResponse))
	})

	_, err := s.Fetch(context.Background(), origin, destination, []ctdf.TransportType{ctdf.TransportTypeMetro, ctdf.TransportTypeTram, ctdf.TransportTypeWalk})
	require.NoError(t, err)
}

func TestFetchConvertsVariants(t *testing.T) {
	s := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tripResponse))
	})

	itineraries, err := s.Fetch(context.Background(), origin, destination, nil)
	require.NoError(t, err)
	require.Len(t, itineraries, 2)

	itinerary := itineraries[0]
	assert.Equal(t, SourceName, itinerary.Source)
	assert.Equal(t, 5000.0, itinerary.TotalDistanceMeters)
	assert.Equal(t, 1500, itinerary.TotalDurationSeconds)
	assert.Equal(t, []string{"12", "M1"}, itinerary.RouteNumbers)

	// the second bus waypoint is within 0.0001 of the transfer point added before it
	assert.Equal(t, []ctdf.Location{
		origin,
		{Latitude: 43.2100, Longitude: 76.9100},
		{Latitude: 43.22005, Longitude: 76.92005},
		{Latitude: 43.2300, Longitude: 76.9300},
		{Latitude: 43.2400, Longitude: 76.9400},
		destination,
	}, itinerary.Path)

	require.Len(t, itinerary.Legs, 4)

	startWalk := itinerary.Legs[0]
	assert.Equal(t, ctdf.LegTypeWalk, startWalk.Type)
	assert.Equal(t, 300.0, startWalk.DistanceMeters)
	assert.Equal(t, 240, startWalk.DurationSeconds)
	assert.Equal(t, origin, *startWalk.Start)
	assert.Equal(t, ctdf.Location{Latitude: 43.2100, Longitude: 76.9100}, *startWalk.End)

	bus := itinerary.Legs[1]
	assert.Equal(t, ctdf.LegTypeRide, bus.Type)
	assert.Equal(t, "12", bus.RouteName)
	assert.Equal(t, int64(12), bus.RouteID)
	assert.Equal(t, ctdf.TransportTypeBus, bus.TransportType)
	assert.Len(t, bus.Points, 2)
	// three route groups, the unnamed one has no location
	assert.InDelta(t, 5000.0/3, bus.DistanceMeters, 1e-9)
	assert.Equal(t, 380, bus.DurationSeconds)

	metro := itinerary.Legs[2]
	assert.Equal(t, "M1", metro.RouteName)
	assert.Equal(t, int64(0), metro.RouteID)
	assert.Equal(t, ctdf.TransportTypeMetro, metro.TransportType)

	endWalk := itinerary.Legs[3]
	assert.Equal(t, ctdf.LegTypeWalk, endWalk.Type)
	assert.Equal(t, 150.0, endWalk.DistanceMeters)
	assert.Equal(t, destination, *endWalk.End)
}

func TestFetchDeduplicatesNearbyPassagePoints(t *testing.T) {
	s := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tripResponse))
	})

	itineraries, err := s.Fetch(context.Background(), origin, destination, nil)
	require.NoError(t, err)

	fallback := itineraries[1]
	assert.Equal(t, []ctdf.Location{
		origin,
		{Latitude: 43.2100, Longitude: 76.9100},
		destination,
	}, fallback.Path)

	require.Len(t, fallback.Legs, 1)
	assert.Equal(t, ctdf.LegTypeRide, fallback.Legs[0].Type)
	assert.Equal(t, fallback.Path, fallback.Legs[0].Points)
	assert.Equal(t, 4000.0, fallback.Legs[0].DistanceMeters)
	assert.Equal(t, 900, fallback.Legs[0].DurationSeconds)
}

func TestFetchSharesOverAllRouteGroups(t *testing.T) {
	s := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"id": "1", "total_distance": 1000, "total_duration": 600,
			"waypoints": [
				{"routes_names": ["12"], "subtype": "bus", "location": {"lat": 43.21, "lon": 76.91}},
				{"routes_names": ["37"], "subtype": "bus", "location": {"lat": 43.22, "lon": 76.92}},
				{"routes_names": ["37"], "subtype": "bus", "location": {"lat": 43.23, "lon": 76.93}}
			],
			"movements": []
		}]`))
	})

	itineraries, err := s.Fetch(context.Background(), origin, destination, nil)
	require.NoError(t, err)
	require.Len(t, itineraries, 1)

	itinerary := itineraries[0]
	assert.Equal(t, []string{"12", "37"}, itinerary.RouteNumbers)
	require.Len(t, itinerary.Legs, 1)
	assert.Equal(t, "37", itinerary.Legs[0].RouteName)
	assert.Equal(t, 500.0, itinerary.Legs[0].DistanceMeters)
	assert.Equal(t, 300, itinerary.Legs[0].DurationSeconds)
}

func TestFetchWalkwaysAnywhere(t *testing.T) {
	tests := []struct {
		name      string
		movements string
		startWalk float64
		endWalk   float64
	}{
		{
			name: "walkways between passages",
			movements: `[
				{"type": "passage", "waypoint": {"location": {"lat": 43.21, "lon": 76.91}}},
				{"type": "walkway", "distance": 100, "moving_duration": 60},
				{"type": "passage", "waypoint": {"location": {"lat": 43.22, "lon": 76.92}}},
				{"type": "walkway", "distance": 200, "moving_duration": 90},
				{"type": "transfer", "waypoint": {"location": {"lat": 43.23, "lon": 76.93}}}
			]`,
			startWalk: 100,
			endWalk:   200,
		},
		{
			name: "single walkway only starts",
			movements: `[
				{"type": "passage", "waypoint": {"location": {"lat": 43.21, "lon": 76.91}}},
				{"type": "walkway", "distance": 100, "moving_duration": 60}
			]`,
			startWalk: 100,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			body := `[{"id": "1", "total_distance": 1000, "total_duration": 600, "waypoints": [], "movements": ` + test.movements + `}]`
			s := testSource(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			itineraries, err := s.Fetch(context.Background(), origin, destination, nil)
			require.NoError(t, err)
			require.Len(t, itineraries, 1)

			legs := itineraries[0].Legs
			require.NotEmpty(t, legs)
			assert.Equal(t, ctdf.LegTypeWalk, legs[0].Type)
			assert.Equal(t, test.startWalk, legs[0].DistanceMeters)

			last := legs[len(legs)-1]
			if test.endWalk > 0 {
				require.Len(t, legs, 3)
				assert.Equal(t, ctdf.LegTypeWalk, last.Type)
				assert.Equal(t, test.endWalk, last.DistanceMeters)
				assert.Equal(t, 600-60-90, legs[1].DurationSeconds)
			} else {
				require.Len(t, legs, 2)
				assert.Equal(t, ctdf.LegTypeRide, last.Type)
			}
		})
	}
}

func TestFetchSkipsVariantWithoutGeometry(t *testing.T) {
	s := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "1", "total_distance": 0, "total_duration": 0, "waypoints": [], "movements": []}]`))
	})

	_, err := s.Fetch(context.Background(), origin, origin, nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)

	variant := tripVariant{TotalDistance: 10}
	_, ok := s.convert(variant, origin, origin)
	assert.False(t, ok)

	itinerary, ok := s.convert(variant, origin, destination)
	require.True(t, ok)
	require.Len(t, itinerary.Legs, 1)
	assert.Len(t, itinerary.Legs[0].Points, 2)
}

func TestDedupModes(t *testing.T) {
	a := ctdf.Location{Latitude: 43.2100, Longitude: 76.9100}
	// 0.00009 on both axes, about 12.4 m away
	e := ctdf.Location{Latitude: 43.21009, Longitude: 76.91009}
	// 0.00002 and 0.00011, about 9.2 m away
	f := ctdf.Location{Latitude: 43.21002, Longitude: 76.91011}

	axis := &pointSequence{mode: DedupAxis}
	for _, location := range []ctdf.Location{a, e, f} {
		axis.add(location)
	}
	assert.Equal(t, []ctdf.Location{a, f}, axis.points)

	haversine := &pointSequence{mode: DedupHaversine}
	for _, location := range []ctdf.Location{a, e, f} {
		haversine.add(location)
	}
	assert.Equal(t, []ctdf.Location{a, e}, haversine.points)
}

func TestFetchEmptyResponse(t *testing.T) {
	s := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := s.Fetch(context.Background(), origin, destination, nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestFetchTransportFailure(t *testing.T) {
	s := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := s.Fetch(context.Background(), origin, destination, nil)
	assert.ErrorIs(t, err, http_client.ErrUnexpectedStatus)
}

func TestFetchNotAList(t *testing.T) {
	s := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error"}`))
	})

	_, err := s.Fetch(context.Background(), origin, destination, nil)
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	s := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tripResponse))
	})

	result, err := s.Lookup(context.Background(), query.ItineraryPlan{Origin: origin, Destination: destination})
	require.NoError(t, err)
	assert.Len(t, result.([]ctdf.Itinerary), 2)

	_, err = s.Lookup(context.Background(), query.LocalPlan{})
	assert.Error(t, err)
}

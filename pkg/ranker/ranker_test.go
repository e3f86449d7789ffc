package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/journeyplanner/pkg/ctdf"
)

func rideOf(seconds int, source string) ctdf.Itinerary {
	return ctdf.Itinerary{
		Source: source,
		Legs:   []ctdf.Leg{{Type: ctdf.LegTypeRide, TransportType: ctdf.TransportTypeBus, DurationSeconds: seconds}},
	}
}

func TestRankOrdersByTotalTime(t *testing.T) {
	ranked := Rank([]ctdf.Itinerary{rideOf(300, "a"), rideOf(120, "b"), rideOf(600, "c")})

	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].Source)
	assert.Equal(t, "a", ranked[1].Source)
	assert.Equal(t, "c", ranked[2].Source)
}

func TestRankIsStable(t *testing.T) {
	ranked := Rank([]ctdf.Itinerary{rideOf(300, "first"), rideOf(100, "fast"), rideOf(300, "second")})

	assert.Equal(t, "fast", ranked[0].Source)
	assert.Equal(t, "first", ranked[1].Source)
	assert.Equal(t, "second", ranked[2].Source)
}

func TestRankTruncates(t *testing.T) {
	var itineraries []ctdf.Itinerary
	for i := 10; i > 0; i-- {
		itineraries = append(itineraries, rideOf(i*60, ""))
	}

	ranked := Rank(itineraries)
	require.Len(t, ranked, DefaultLimit)
	assert.Equal(t, 60, ranked[0].Legs[0].DurationSeconds)

	unlimited := &Ranker{}
	assert.Len(t, unlimited.Rank(itineraries), 10)
}

func TestEstimatedDurations(t *testing.T) {
	walk := ctdf.Leg{Type: ctdf.LegTypeWalk, DistanceMeters: 140}
	ride := ctdf.Leg{Type: ctdf.LegTypeRide, DistanceMeters: 1500}

	assert.InDelta(t, 100, LegSeconds(walk), 1e-9)
	assert.InDelta(t, 180, LegSeconds(ride), 1e-9)

	itinerary := ctdf.Itinerary{Legs: []ctdf.Leg{walk, ride, {Type: ctdf.LegTypeWalk, DistanceMeters: 500, DurationSeconds: 60}}}
	assert.InDelta(t, 340, TotalSeconds(itinerary), 1e-9)
}

func TestFilter(t *testing.T) {
	direct := rideOf(900, "direct")
	transfer := ctdf.Itinerary{
		Source: "transfer",
		Legs: []ctdf.Leg{
			{Type: ctdf.LegTypeRide, TransportType: ctdf.TransportTypeBus, DurationSeconds: 200},
			{Type: ctdf.LegTypeRide, TransportType: ctdf.TransportTypeMetro, DurationSeconds: 200},
		},
	}
	walking := ctdf.Itinerary{
		Source: "walking",
		Legs:   []ctdf.Leg{{Type: ctdf.LegTypeWalk, DistanceMeters: 2100}},
	}

	ranker, err := New(5, "Transfers == 0 && WalkSeconds < 900")
	require.NoError(t, err)

	ranked := ranker.Rank([]ctdf.Itinerary{transfer, walking, direct})
	require.Len(t, ranked, 1)
	assert.Equal(t, "direct", ranked[0].Source)

	ranker, err = New(5, `"Metro" in Modes`)
	require.NoError(t, err)
	ranked = ranker.Rank([]ctdf.Itinerary{transfer, walking, direct})
	require.Len(t, ranked, 1)
	assert.Equal(t, "transfer", ranked[0].Source)

	_, err = New(5, "Transfers +")
	assert.Error(t, err)

	_, err = New(5, "Transfers")
	assert.Error(t, err)
}

func TestSummarise(t *testing.T) {
	summary := Summarise(ctdf.Itinerary{
		Source:       "local",
		RouteNumbers: []string{"12"},
		Legs: []ctdf.Leg{
			{Type: ctdf.LegTypeWalk, DistanceMeters: 140},
			{Type: ctdf.LegTypeRide, TransportType: ctdf.TransportTypeBus, DistanceMeters: 3000, DurationSeconds: 600},
		},
	})

	assert.Equal(t, Summary{
		Source:       "local",
		Legs:         2,
		Transfers:    0,
		WalkMeters:   140,
		WalkSeconds:  100,
		RideMeters:   3000,
		RideSeconds:  600,
		TotalSeconds: 700,
		RouteNumbers: []string{"12"},
		Modes:        []string{"Bus"},
	}, summary)
}

package dataaggregator

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source"
	"github.com/travigo/journeyplanner/pkg/ranker"
)

type fakeSource struct {
	name        string
	delay       time.Duration
	itineraries []ctdf.Itinerary
	err         error
	handles     reflect.Type
}

func (f fakeSource) GetName() string {
	return f.name
}

func (f fakeSource) Supports() []reflect.Type {
	return []reflect.Type{reflect.TypeOf([]ctdf.Itinerary{})}
}

func (f fakeSource) Lookup(ctx context.Context, q any) (interface{}, error) {
	if f.handles != nil && reflect.TypeOf(q) != f.handles {
		return nil, source.UnsupportedSourceError
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.err != nil {
		return nil, f.err
	}
	return f.itineraries, nil
}

type blockingSource struct {
	fakeSource
}

// Lookup ignores the context entirely
func (b blockingSource) Lookup(ctx context.Context, q any) (interface{}, error) {
	time.Sleep(2 * time.Second)
	return b.itineraries, nil
}

func ride(source string, seconds int) ctdf.Itinerary {
	return ctdf.Itinerary{Source: source, Legs: []ctdf.Leg{{Type: ctdf.LegTypeRide, DurationSeconds: seconds}}}
}

func TestPlanItinerariesPartialFailure(t *testing.T) {
	aggregator := New(200*time.Millisecond, nil)
	aggregator.RegisterSource(fakeSource{name: "broken", err: errors.New("connection refused")})
	aggregator.RegisterSource(fakeSource{name: "slow", delay: 5 * time.Second, itineraries: []ctdf.Itinerary{ride("slow", 10)}})
	aggregator.RegisterSource(fakeSource{name: "fast", itineraries: []ctdf.Itinerary{ride("fast", 600), ride("fast", 300)}})

	start := time.Now()
	result := aggregator.PlanItineraries(context.Background(), query.ItineraryPlan{})
	assert.Less(t, time.Since(start), 2*time.Second)

	require.Len(t, result.Providers, 3)
	assert.Equal(t, "broken", result.Providers[0].Name)
	assert.Equal(t, "connection refused", result.Providers[0].Error)
	assert.Equal(t, "slow", result.Providers[1].Name)
	assert.ErrorIs(t, result.Providers[1].Err, context.DeadlineExceeded)
	assert.Equal(t, "fast", result.Providers[2].Name)
	assert.NoError(t, result.Providers[2].Err)
	assert.Equal(t, 2, result.Providers[2].Itineraries)

	require.Len(t, result.Itineraries, 2)
	assert.Equal(t, 300, result.Itineraries[0].Legs[0].DurationSeconds)
}

func TestLookupAllDoesNotWaitForBlockedSource(t *testing.T) {
	aggregator := New(100*time.Millisecond, nil)
	aggregator.RegisterSource(blockingSource{fakeSource{name: "stuck"}})
	aggregator.RegisterSource(fakeSource{name: "fast", itineraries: []ctdf.Itinerary{ride("fast", 60)}})

	start := time.Now()
	results := LookupAll[[]ctdf.Itinerary](context.Background(), aggregator, query.ItineraryPlan{})
	assert.Less(t, time.Since(start), time.Second)

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.Len(t, results[1].Value, 1)
}

func TestPlanSkipsUnsupportedSources(t *testing.T) {
	aggregator := New(time.Second, nil)
	aggregator.RegisterSource(fakeSource{name: "remote", handles: reflect.TypeOf(query.ItineraryPlan{}), itineraries: []ctdf.Itinerary{ride("remote", 1)}})
	aggregator.RegisterSource(fakeSource{name: "local", handles: reflect.TypeOf(query.LocalPlan{}), itineraries: []ctdf.Itinerary{ride("local", 1)}})

	result := aggregator.PlanLocal(context.Background(), query.LocalPlan{From: "a", To: "b"})
	require.Len(t, result.Providers, 1)
	assert.Equal(t, "local", result.Providers[0].Name)
	require.Len(t, result.Itineraries, 1)
	assert.Equal(t, "local", result.Itineraries[0].Source)
}

func TestPlanAppliesRankerLimit(t *testing.T) {
	aggregator := New(time.Second, &ranker.Ranker{Limit: 1})
	aggregator.RegisterSource(fakeSource{name: "a", itineraries: []ctdf.Itinerary{ride("a", 500)}})
	aggregator.RegisterSource(fakeSource{name: "b", itineraries: []ctdf.Itinerary{ride("b", 100)}})

	result := aggregator.PlanItineraries(context.Background(), query.ItineraryPlan{})
	require.Len(t, result.Itineraries, 1)
	assert.Equal(t, "b", result.Itineraries[0].Source)
}

func TestPlanWithNoSources(t *testing.T) {
	aggregator := New(time.Second, nil)

	result := aggregator.PlanItineraries(context.Background(), query.ItineraryPlan{})
	assert.Empty(t, result.Itineraries)
	assert.Empty(t, result.Providers)
}

func TestLookup(t *testing.T) {
	aggregator := New(time.Second, nil)
	aggregator.RegisterSource(fakeSource{name: "remote", handles: reflect.TypeOf(query.ItineraryPlan{})})
	aggregator.RegisterSource(fakeSource{name: "local", handles: reflect.TypeOf(query.LocalPlan{}), itineraries: []ctdf.Itinerary{ride("local", 1)}})

	itineraries, err := Lookup[[]ctdf.Itinerary](context.Background(), aggregator, query.LocalPlan{})
	require.NoError(t, err)
	assert.Equal(t, "local", itineraries[0].Source)

	_, err = Lookup[[]*ctdf.Stop](context.Background(), aggregator, query.Stop{})
	assert.ErrorIs(t, err, ErrNoMatchingSource)
}

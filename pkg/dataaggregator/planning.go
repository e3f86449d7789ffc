package dataaggregator

import (
	"context"
	"time"

	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
)

// ProviderStatus reports how one source did for a planning request
type ProviderStatus struct {
	Name        string        `json:"name" groups:"basic"`
	Itineraries int           `json:"itineraries" groups:"basic"`
	Error       string        `json:"error,omitempty" groups:"basic"`
	Latency     time.Duration `json:"latency" groups:"detailed"`

	Err error `json:"-"`
}

type PlanResult struct {
	Itineraries []ctdf.Itinerary `json:"itineraries" groups:"basic"`
	Providers   []ProviderStatus `json:"providers" groups:"basic"`
}

// PlanItineraries queries every itinerary source at once and ranks the combined results.
// Provider failures are reported in the statuses and never fail the whole plan.
func (a *Aggregator) PlanItineraries(ctx context.Context, q query.ItineraryPlan) *PlanResult {
	return a.plan(ctx, q)
}

// PlanLocal plans over the bundled dataset with the same ranking as remote plans
func (a *Aggregator) PlanLocal(ctx context.Context, q query.LocalPlan) *PlanResult {
	return a.plan(ctx, q)
}

func (a *Aggregator) plan(ctx context.Context, q any) *PlanResult {
	result := &PlanResult{
		Itineraries: []ctdf.Itinerary{},
		Providers:   []ProviderStatus{},
	}

	var combined []ctdf.Itinerary
	for _, sourceResult := range LookupAll[[]ctdf.Itinerary](ctx, a, q) {
		status := ProviderStatus{
			Name:        sourceResult.Name,
			Itineraries: len(sourceResult.Value),
			Latency:     sourceResult.Latency,
			Err:         sourceResult.Err,
		}
		if sourceResult.Err != nil {
			status.Error = sourceResult.Err.Error()
		}

		result.Providers = append(result.Providers, status)
		combined = append(combined, sourceResult.Value...)
	}

	result.Itineraries = append(result.Itineraries, a.Ranker.Rank(combined)...)

	return result
}

package ranker

import (
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"golang.org/x/exp/slices"
)

const (
	DefaultLimit = 5

	// WalkingSpeed and RideSpeed are in meters per second and only used when a leg has no duration
	WalkingSpeed = 1.4
	RideSpeed    = 30.0 / 3.6
)

type Ranker struct {
	// Limit is the maximum number of itineraries returned. Zero or negative keeps them all.
	Limit int

	filter *vm.Program
}

// New creates a Ranker. An empty filter expression keeps every itinerary.
func New(limit int, filter string) (*Ranker, error) {
	ranker := &Ranker{Limit: limit}

	if filter != "" {
		program, err := expr.Compile(filter, expr.Env(Summary{}), expr.AsBool())
		if err != nil {
			return nil, errors.Wrap(err, "invalid ranker filter")
		}
		ranker.filter = program
	}

	return ranker, nil
}

// Rank orders itineraries by estimated total time with the default limit
func Rank(itineraries []ctdf.Itinerary) []ctdf.Itinerary {
	ranker := &Ranker{Limit: DefaultLimit}
	return ranker.Rank(itineraries)
}

// Rank returns a new slice ordered by estimated total time, ties keeping their input order
func (r *Ranker) Rank(itineraries []ctdf.Itinerary) []ctdf.Itinerary {
	type ranked struct {
		itinerary ctdf.Itinerary
		seconds   float64
	}

	candidates := make([]ranked, 0, len(itineraries))
	for _, itinerary := range itineraries {
		if r.filter != nil && !r.matches(itinerary) {
			continue
		}

		candidates = append(candidates, ranked{itinerary: itinerary, seconds: TotalSeconds(itinerary)})
	}

	slices.SortStableFunc(candidates, func(a, b ranked) int {
		switch {
		case a.seconds < b.seconds:
			return -1
		case a.seconds > b.seconds:
			return 1
		default:
			return 0
		}
	})

	if r.Limit > 0 && len(candidates) > r.Limit {
		candidates = candidates[:r.Limit]
	}

	result := make([]ctdf.Itinerary, 0, len(candidates))
	for _, candidate := range candidates {
		result = append(result, candidate.itinerary)
	}
	return result
}

func (r *Ranker) matches(itinerary ctdf.Itinerary) bool {
	output, err := expr.Run(r.filter, Summarise(itinerary))
	if err != nil {
		return false
	}

	matched, ok := output.(bool)
	return ok && matched
}

// LegSeconds is the leg duration, estimated from its distance when the source gave none
func LegSeconds(leg ctdf.Leg) float64 {
	if leg.DurationSeconds > 0 {
		return float64(leg.DurationSeconds)
	}

	if leg.Type == ctdf.LegTypeWalk {
		return leg.DistanceMeters / WalkingSpeed
	}
	return leg.DistanceMeters / RideSpeed
}

// TotalSeconds is the sum of every leg's duration
func TotalSeconds(itinerary ctdf.Itinerary) float64 {
	var total float64
	for _, leg := range itinerary.Legs {
		total += LegSeconds(leg)
	}

	if len(itinerary.Legs) == 0 && itinerary.TotalDurationSeconds > 0 {
		return float64(itinerary.TotalDurationSeconds)
	}
	return total
}

// Summary is the environment filter expressions are evaluated against
type Summary struct {
	Source       string
	Legs         int
	Transfers    int
	WalkMeters   float64
	WalkSeconds  int
	RideMeters   float64
	RideSeconds  int
	TotalSeconds int
	RouteNumbers []string
	Modes        []string
}

func Summarise(itinerary ctdf.Itinerary) Summary {
	summary := Summary{
		Source:       itinerary.Source,
		Legs:         len(itinerary.Legs),
		Transfers:    itinerary.Transfers(),
		RouteNumbers: itinerary.RouteNumbers,
	}

	var walkSeconds, rideSeconds float64
	for _, leg := range itinerary.Legs {
		if leg.Type == ctdf.LegTypeWalk {
			summary.WalkMeters += leg.DistanceMeters
			walkSeconds += LegSeconds(leg)
			continue
		}

		summary.RideMeters += leg.DistanceMeters
		rideSeconds += LegSeconds(leg)
		if !slices.Contains(summary.Modes, string(leg.TransportType)) {
			summary.Modes = append(summary.Modes, string(leg.TransportType))
		}
	}

	summary.WalkSeconds = int(math.Round(walkSeconds))
	summary.RideSeconds = int(math.Round(rideSeconds))
	summary.TotalSeconds = int(math.Round(TotalSeconds(itinerary)))

	return summary
}

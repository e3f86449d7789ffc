package journeyplanner

import (
	"math"

	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/geo"
	"github.com/travigo/journeyplanner/pkg/stopresolver"
	"github.com/travigo/journeyplanner/pkg/transitgraph"
	"golang.org/x/exp/slices"
)

const (
	SourceName = "local"

	DefaultCloseThresholdMeters = 200.0

	// WalkingSpeed in meters per second
	WalkingSpeed = 1.4
)

type Options struct {
	// CloseThresholdMeters is the distance at or below which two stops are walked between
	CloseThresholdMeters float64

	// Locales searched when resolving stop names
	Locales []string

	// PrimaryLocale is preferred for route names on ride legs
	PrimaryLocale string

	// Modes restricts the routes that may be ridden. Empty allows all.
	Modes []ctdf.TransportType
}

// Plan finds walking, direct and one-transfer itineraries between every stop matching fromQuery
// and every stop matching toQuery. It never fails, no match gives an empty result.
func Plan(fromQuery string, toQuery string, graph *transitgraph.Graph, options Options) []ctdf.Itinerary {
	fromStops := stopresolver.FindCandidates(fromQuery, graph.Stops(), options.Locales)
	toStops := stopresolver.FindCandidates(toQuery, graph.Stops(), options.Locales)

	if len(fromStops) == 0 || len(toStops) == 0 {
		return nil
	}

	threshold := options.CloseThresholdMeters
	if threshold <= 0 {
		threshold = DefaultCloseThresholdMeters
	}

	planner := &planner{
		graph:   graph,
		options: options,
	}

	var itineraries []ctdf.Itinerary
	for _, fromStop := range fromStops {
		for _, toStop := range toStops {
			distance := geo.HaversineMeters(fromStop.Location, toStop.Location)
			if distance <= threshold {
				itineraries = append(itineraries, walkItinerary(fromStop, toStop, distance))
				continue
			}

			direct := planner.directItineraries(fromStop, toStop)
			if len(direct) > 0 {
				itineraries = append(itineraries, direct...)
				continue
			}

			itineraries = append(itineraries, planner.transferItineraries(fromStop, toStop)...)
		}
	}

	return itineraries
}

type planner struct {
	graph   *transitgraph.Graph
	options Options
}

func walkItinerary(fromStop *ctdf.Stop, toStop *ctdf.Stop, distance float64) ctdf.Itinerary {
	start := fromStop.Location
	end := toStop.Location
	duration := walkingDuration(distance)

	return ctdf.Itinerary{
		Source:               SourceName,
		Legs:                 []ctdf.Leg{ctdf.NewWalkLeg(distance, duration, &start, &end)},
		TotalDistanceMeters:  distance,
		TotalDurationSeconds: duration,
	}
}

func walkingDuration(distance float64) int {
	return int(math.Round(distance / WalkingSpeed))
}

func (p *planner) allowed(route *ctdf.Route) bool {
	return len(p.options.Modes) == 0 || slices.Contains(p.options.Modes, route.TransportType)
}

func (p *planner) directItineraries(fromStop *ctdf.Stop, toStop *ctdf.Stop) []ctdf.Itinerary {
	var itineraries []ctdf.Itinerary

	for _, routeDirection := range p.graph.DirectionsContaining(fromStop.ID) {
		if !p.allowed(routeDirection.Route) {
			continue
		}

		fromPosition, _ := routeDirection.Position(fromStop.ID)
		toPosition, ok := routeDirection.Position(toStop.ID)
		if !ok {
			continue
		}

		leg, ok := p.rideLeg(routeDirection, fromPosition, toPosition)
		if !ok {
			continue
		}

		itineraries = append(itineraries, rideItinerary(leg))
	}

	return itineraries
}

func (p *planner) transferItineraries(fromStop *ctdf.Stop, toStop *ctdf.Stop) []ctdf.Itinerary {
	var itineraries []ctdf.Itinerary

	for _, first := range p.graph.DirectionsContaining(fromStop.ID) {
		if !p.allowed(first.Route) {
			continue
		}
		fromPosition, _ := first.Position(fromStop.ID)

		for _, second := range p.graph.DirectionsContaining(toStop.ID) {
			if second == first || !p.allowed(second.Route) {
				continue
			}
			toPosition, _ := second.Position(toStop.ID)

			seen := map[int64]bool{}
			for _, directionStop := range first.Direction.Stops {
				transferStopID := directionStop.StopID
				if transferStopID == fromStop.ID || transferStopID == toStop.ID || seen[transferStopID] {
					continue
				}
				seen[transferStopID] = true

				transferPositionSecond, ok := second.Position(transferStopID)
				if !ok {
					continue
				}
				transferPositionFirst, _ := first.Position(transferStopID)

				firstLeg, ok := p.rideLeg(first, fromPosition, transferPositionFirst)
				if !ok {
					continue
				}
				secondLeg, ok := p.rideLeg(second, transferPositionSecond, toPosition)
				if !ok {
					continue
				}

				itineraries = append(itineraries, rideItinerary(firstLeg, secondLeg))
			}
		}
	}

	return itineraries
}

// rideLeg slices the direction between two positions in either order. The geometry always runs
// from the first position to the second and skips stops missing from the dataset.
func (p *planner) rideLeg(routeDirection *transitgraph.RouteDirection, from int, to int) (ctdf.Leg, bool) {
	if from == to {
		return ctdf.Leg{}, false
	}

	stops := routeDirection.Direction.Stops
	step := 1
	if to < from {
		step = -1
	}

	var points []ctdf.Location
	for i := from; ; i += step {
		if stop, ok := p.graph.StopByID(stops[i].StopID); ok {
			points = append(points, stop.Location)
		}
		if i == to {
			break
		}
	}

	if len(points) < 2 {
		return ctdf.Leg{}, false
	}

	route := routeDirection.Route

	return ctdf.Leg{
		Type:           ctdf.LegTypeRide,
		RouteID:        route.ID,
		RouteName:      route.Name.Get(p.nameLocales()...),
		TransportType:  route.TransportType,
		DirectionIndex: routeDirection.Direction.Index,
		DistanceMeters: math.Abs(stops[to].OffsetDistance - stops[from].OffsetDistance),
		Points:         points,
	}, true
}

func (p *planner) nameLocales() []string {
	var locales []string
	if p.options.PrimaryLocale != "" {
		locales = append(locales, p.options.PrimaryLocale)
	}
	return append(locales, p.options.Locales...)
}

func rideItinerary(legs ...ctdf.Leg) ctdf.Itinerary {
	itinerary := ctdf.Itinerary{
		Source: SourceName,
		Legs:   legs,
	}

	for _, leg := range legs {
		itinerary.TotalDistanceMeters += leg.DistanceMeters
		if leg.RouteName != "" {
			itinerary.RouteNumbers = append(itinerary.RouteNumbers, leg.RouteName)
		}
	}

	return itinerary
}

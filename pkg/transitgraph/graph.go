package transitgraph

import (
	"github.com/travigo/journeyplanner/pkg/ctdf"
)

// RouteDirection is one travel direction of a route together with an index of where each of
// its stops first appears
type RouteDirection struct {
	Route     *ctdf.Route
	Direction *ctdf.Direction

	positions map[int64]int // stop id -> first position in Direction.Stops
}

// Position returns the first position of the stop in the direction's stop sequence.
// On loop routes a stop appearing twice always resolves to its first occurrence.
func (r *RouteDirection) Position(stopID int64) (int, bool) {
	position, ok := r.positions[stopID]
	return position, ok
}

func (r *RouteDirection) Contains(stopID int64) bool {
	_, ok := r.positions[stopID]
	return ok
}

// Graph is a read-only view over a loaded dataset snapshot. It is never modified after New
// returns so it can be shared between goroutines without locking.
type Graph struct {
	stops      []*ctdf.Stop
	stopsByID  map[int64]*ctdf.Stop
	routes     []*ctdf.Route
	routesByID map[int64]*ctdf.Route

	directionsByStop map[int64][]*RouteDirection
	directions       []*RouteDirection
}

func New(stops []ctdf.Stop, routes []ctdf.Route) *Graph {
	graph := &Graph{
		stops:            make([]*ctdf.Stop, 0, len(stops)),
		stopsByID:        make(map[int64]*ctdf.Stop, len(stops)),
		routes:           make([]*ctdf.Route, 0, len(routes)),
		routesByID:       make(map[int64]*ctdf.Route, len(routes)),
		directionsByStop: map[int64][]*RouteDirection{},
	}

	for i := range stops {
		stop := stops[i]
		if _, exists := graph.stopsByID[stop.ID]; exists {
			continue
		}

		graph.stops = append(graph.stops, &stop)
		graph.stopsByID[stop.ID] = &stop
	}

	for i := range routes {
		route := routes[i]
		if _, exists := graph.routesByID[route.ID]; exists {
			continue
		}

		route.Directions = append([]ctdf.Direction(nil), route.Directions...)
		graph.routes = append(graph.routes, &route)
		graph.routesByID[route.ID] = &route

		for d := range route.Directions {
			routeDirection := &RouteDirection{
				Route:     &route,
				Direction: &route.Directions[d],
				positions: map[int64]int{},
			}

			for position, directionStop := range routeDirection.Direction.Stops {
				if _, seen := routeDirection.positions[directionStop.StopID]; seen {
					continue
				}

				routeDirection.positions[directionStop.StopID] = position
				graph.directionsByStop[directionStop.StopID] = append(graph.directionsByStop[directionStop.StopID], routeDirection)
			}

			graph.directions = append(graph.directions, routeDirection)
		}
	}

	return graph
}

func (g *Graph) StopByID(id int64) (*ctdf.Stop, bool) {
	stop, ok := g.stopsByID[id]
	return stop, ok
}

func (g *Graph) RouteByID(id int64) (*ctdf.Route, bool) {
	route, ok := g.routesByID[id]
	return route, ok
}

// DirectionsContaining returns every route direction whose stop sequence has the stop at least once.
// The returned slice must not be modified.
func (g *Graph) DirectionsContaining(stopID int64) []*RouteDirection {
	return g.directionsByStop[stopID]
}

// Stops returns the stops in dataset order
func (g *Graph) Stops() []*ctdf.Stop {
	return g.stops
}

func (g *Graph) Routes() []*ctdf.Route {
	return g.routes
}

func (g *Graph) RoutesByTransportType(transportType ctdf.TransportType) []*ctdf.Route {
	var routes []*ctdf.Route
	for _, route := range g.routes {
		if route.TransportType == transportType {
			routes = append(routes, route)
		}
	}
	return routes
}

// Stats is a summary of the graph size
type Stats struct {
	Stops      int `json:"stops"`
	Routes     int `json:"routes"`
	Directions int `json:"directions"`
}

func (g *Graph) Stats() Stats {
	return Stats{
		Stops:      len(g.stops),
		Routes:     len(g.routes),
		Directions: len(g.directions),
	}
}

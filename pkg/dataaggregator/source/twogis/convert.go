package twogis

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/geo"
)

type DedupMode int

const (
	// DedupAxis treats points as equal when both coordinates differ by less than AxisEpsilon degrees
	DedupAxis DedupMode = iota

	// DedupHaversine treats points as equal when they are at most HaversineEpsilonMeters apart
	DedupHaversine
)

// ParseDedupMode maps the configured name to a mode, anything but "haversine" is DedupAxis
func ParseDedupMode(name string) DedupMode {
	if strings.EqualFold(name, "haversine") {
		return DedupHaversine
	}
	return DedupAxis
}

const (
	AxisEpsilon            = 0.0001
	HaversineEpsilonMeters = 10.0

	unknownRouteName = "unknown"
)

type pointSequence struct {
	mode   DedupMode
	points []ctdf.Location
}

// add appends the location unless it duplicates any point already in the sequence
func (p *pointSequence) add(location ctdf.Location) {
	for _, existing := range p.points {
		if p.duplicate(existing, location) {
			return
		}
	}
	p.points = append(p.points, location)
}

func (p *pointSequence) duplicate(a ctdf.Location, b ctdf.Location) bool {
	if p.mode == DedupHaversine {
		return geo.HaversineMeters(a, b) <= HaversineEpsilonMeters
	}
	return geo.WithinAxisEpsilon(a, b, AxisEpsilon)
}

type waypointGroup struct {
	name      string
	subtype   string
	locations []ctdf.Location
}

// convert builds the itinerary of one variant. It reports false when the variant has no usable geometry.
func (s Source) convert(variant tripVariant, origin ctdf.Location, destination ctdf.Location) (ctdf.Itinerary, bool) {
	movements := decodeMovements(variant.Movements)
	waypoints := decodeWaypoints(variant.Waypoints)

	path := &pointSequence{mode: s.Dedup}
	path.add(origin)

	for _, movement := range movements {
		if movement.Type != movementPassage && movement.Type != movementTransfer {
			continue
		}
		if location, ok := movement.location(); ok {
			path.add(location)
		}
	}

	for _, waypoint := range waypoints {
		if location, ok := waypoint.Location.location(); ok {
			path.add(location)
		}
	}

	path.add(destination)

	// first walkway reaches the first stop, a later last walkway leaves the final one
	var startWalk, endWalk *movement
	for i := range movements {
		if movements[i].Type != movementWalkway {
			continue
		}
		if startWalk == nil {
			startWalk = &movements[i]
		} else {
			endWalk = &movements[i]
		}
	}

	walkSeconds := 0
	if startWalk != nil {
		walkSeconds += seconds(startWalk.MovingDuration)
	}
	if endWalk != nil {
		walkSeconds += seconds(endWalk.MovingDuration)
	}
	rideSeconds := seconds(variant.TotalDuration) - walkSeconds
	if rideSeconds < 0 {
		rideSeconds = 0
	}

	var routeNumbers []string
	var rides []ctdf.Leg
	groups := groupWaypoints(waypoints)
	for _, group := range groups {
		if group.name != unknownRouteName {
			routeNumbers = append(routeNumbers, group.name)
		}

		if len(group.locations) < 2 {
			continue
		}

		routeID, _ := strconv.ParseInt(group.name, 10, 64)
		rides = append(rides, ctdf.Leg{
			Type:          ctdf.LegTypeRide,
			RouteID:       routeID,
			RouteName:     group.name,
			TransportType: ctdf.ParseTransportType(group.subtype),
			Points:        group.locations,
		})
	}

	if len(rides) > 0 {
		// shares are taken over every route group, including the ones too short to draw
		for i := range rides {
			rides[i].DistanceMeters = variant.TotalDistance / float64(len(groups))
			rides[i].DurationSeconds = rideSeconds / len(groups)
		}
	} else {
		if len(path.points) < 2 {
			log.Debug().Str("source", SourceName).Str("variant", string(variant.ID)).Msg("Skipping variant without geometry")
			return ctdf.Itinerary{}, false
		}

		name := ""
		if len(waypoints) > 0 {
			name = strings.Join(waypoints[0].RoutesNames, ", ")
		}

		rides = append(rides, ctdf.Leg{
			Type:            ctdf.LegTypeRide,
			RouteName:       name,
			TransportType:   ctdf.TransportTypeUnknown,
			Points:          path.points,
			DistanceMeters:  variant.TotalDistance,
			DurationSeconds: rideSeconds,
		})
	}

	itinerary := ctdf.Itinerary{
		Source:               SourceName,
		Path:                 path.points,
		RouteNumbers:         routeNumbers,
		TotalDistanceMeters:  variant.TotalDistance,
		TotalDurationSeconds: seconds(variant.TotalDuration),
	}

	if startWalk != nil {
		start := origin
		end := rides[0].Points[0]
		itinerary.Legs = append(itinerary.Legs, ctdf.NewWalkLeg(startWalk.Distance, seconds(startWalk.MovingDuration), &start, &end))
	}

	itinerary.Legs = append(itinerary.Legs, rides...)

	if endWalk != nil {
		lastRide := rides[len(rides)-1]
		start := lastRide.Points[len(lastRide.Points)-1]
		end := destination
		itinerary.Legs = append(itinerary.Legs, ctdf.NewWalkLeg(endWalk.Distance, seconds(endWalk.MovingDuration), &start, &end))
	}

	return itinerary, true
}

// groupWaypoints groups by the first route name of every waypoint, keeping first-seen order
func groupWaypoints(waypoints []waypoint) []*waypointGroup {
	var groups []*waypointGroup
	byName := map[string]*waypointGroup{}

	for _, waypoint := range waypoints {
		name := unknownRouteName
		if len(waypoint.RoutesNames) > 0 && waypoint.RoutesNames[0] != "" {
			name = waypoint.RoutesNames[0]
		}

		group, exists := byName[name]
		if !exists {
			group = &waypointGroup{name: name, subtype: waypoint.Subtype}
			byName[name] = group
			groups = append(groups, group)
		}

		if location, ok := waypoint.Location.location(); ok {
			group.locations = append(group.locations, location)
		}
	}

	return groups
}

func decodeMovements(raw []json.RawMessage) []movement {
	movements := make([]movement, 0, len(raw))
	for index, rawMovement := range raw {
		var decoded movement
		if err := json.Unmarshal(rawMovement, &decoded); err != nil {
			log.Debug().Err(err).Str("source", SourceName).Int("movement", index).Msg("Skipping malformed movement")
			continue
		}
		movements = append(movements, decoded)
	}
	return movements
}

func decodeWaypoints(raw []json.RawMessage) []waypoint {
	waypoints := make([]waypoint, 0, len(raw))
	for index, rawWaypoint := range raw {
		var decoded waypoint
		if err := json.Unmarshal(rawWaypoint, &decoded); err != nil {
			log.Debug().Err(err).Str("source", SourceName).Int("waypoint", index).Msg("Skipping malformed waypoint")
			continue
		}
		waypoints = append(waypoints, decoded)
	}
	return waypoints
}

func seconds(value float64) int {
	if value <= 0 || math.IsNaN(value) {
		return 0
	}
	return int(math.Round(value))
}

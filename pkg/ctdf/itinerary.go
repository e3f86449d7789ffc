package ctdf

type LegType string

const (
	LegTypeWalk LegType = "Walk"
	LegTypeRide LegType = "Ride"
)

// Itinerary is one complete trip option. Itineraries are built fresh by every planning call and
// are not modified afterwards.
type Itinerary struct {
	// Source is the name of the data source that produced the itinerary
	Source string `json:"source" groups:"basic"`

	Legs []Leg `json:"legs" groups:"basic"`

	// Path is the full point sequence of the trip when the source reports one
	Path []Location `json:"path,omitempty" groups:"detailed"`

	// Markers are the coordinates of real stops along the itinerary, when the source knows them
	Markers []Location `json:"markers,omitempty" groups:"detailed"`

	// Aggregates reported by the source. Zero when the source does not report them.
	RouteNumbers         []string `json:"route_numbers,omitempty" groups:"basic"`
	TotalDistanceMeters  float64  `json:"total_distance_meters,omitempty" groups:"basic"`
	TotalDurationSeconds int      `json:"total_duration_seconds,omitempty" groups:"basic"`
}

// Leg is either a Walk or a Ride. Route fields are only set on Ride legs.
type Leg struct {
	Type LegType `json:"type" groups:"basic"`

	RouteID        int64         `json:"route_id,omitempty" groups:"basic"`
	RouteName      string        `json:"route_name,omitempty" groups:"basic"`
	TransportType  TransportType `json:"transport_type,omitempty" groups:"basic"`
	DirectionIndex int           `json:"direction_index" groups:"detailed"`

	DistanceMeters float64 `json:"distance_meters" groups:"basic"`

	// DurationSeconds is 0 when the source gave no duration
	DurationSeconds int `json:"duration_seconds" groups:"basic"`

	// Points is the stop-to-stop geometry of a Ride leg, at least 2 points
	Points []Location `json:"points,omitempty" groups:"detailed"`

	// Start and End are the optional endpoints of a Walk leg
	Start *Location `json:"start,omitempty" groups:"detailed"`
	End   *Location `json:"end,omitempty" groups:"detailed"`
}

func NewWalkLeg(distanceMeters float64, durationSeconds int, start *Location, end *Location) Leg {
	return Leg{
		Type:            LegTypeWalk,
		TransportType:   TransportTypeWalk,
		DistanceMeters:  distanceMeters,
		DurationSeconds: durationSeconds,
		Start:           start,
		End:             end,
	}
}

// RideLegs returns only the Ride legs, keeping their order
func (i *Itinerary) RideLegs() []Leg {
	var legs []Leg
	for _, leg := range i.Legs {
		if leg.Type == LegTypeRide {
			legs = append(legs, leg)
		}
	}
	return legs
}

// Transfers is the number of vehicle changes
func (i *Itinerary) Transfers() int {
	rides := len(i.RideLegs())
	if rides == 0 {
		return 0
	}
	return rides - 1
}

// Polylines returns the geometry of every leg that has one, in leg order
func (i *Itinerary) Polylines() [][]Location {
	var polylines [][]Location
	for _, leg := range i.Legs {
		if len(leg.Points) > 0 {
			polylines = append(polylines, leg.Points)
		} else if leg.Start != nil && leg.End != nil {
			polylines = append(polylines, []Location{*leg.Start, *leg.End})
		}
	}
	return polylines
}

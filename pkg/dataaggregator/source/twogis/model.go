package twogis

import (
	"encoding/json"

	"github.com/travigo/journeyplanner/pkg/ctdf"
)

type tripRequest struct {
	Locale    string    `json:"locale"`
	Source    pointInfo `json:"source"`
	Target    pointInfo `json:"target"`
	Transport []string  `json:"transport"`
}

type pointInfo struct {
	Name  string `json:"name"`
	Point point  `json:"point"`
}

type point struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func newPoint(location ctdf.Location) point {
	return point{Lat: &location.Latitude, Lon: &location.Longitude}
}

func (p *point) location() (ctdf.Location, bool) {
	if p == nil || p.Lat == nil || p.Lon == nil {
		return ctdf.Location{}, false
	}
	return ctdf.Location{Latitude: *p.Lat, Longitude: *p.Lon}, true
}

// Waypoints and movements are kept raw so one bad entry only loses itself
type tripVariant struct {
	ID            json.RawMessage   `json:"id"`
	TotalDistance float64           `json:"total_distance"`
	TotalDuration float64           `json:"total_duration"`
	TransferCount int               `json:"transfer_count"`
	Waypoints     []json.RawMessage `json:"waypoints"`
	Movements     []json.RawMessage `json:"movements"`
}

type waypoint struct {
	Combined    bool     `json:"combined"`
	RoutesNames []string `json:"routes_names"`
	Subtype     string   `json:"subtype"`
	Location    *point   `json:"location"`
}

const (
	movementWalkway  = "walkway"
	movementPassage  = "passage"
	movementTransfer = "transfer"
)

type movement struct {
	ID              string            `json:"id"`
	Type            string            `json:"type"`
	Distance        float64           `json:"distance"`
	MovingDuration  float64           `json:"moving_duration"`
	WaitingDuration float64           `json:"waiting_duration"`
	Waypoint        *movementWaypoint `json:"waypoint"`
}

type movementWaypoint struct {
	Subtype  string  `json:"subtype"`
	Name     string  `json:"name"`
	Comment  *string `json:"comment"`
	Location *point  `json:"location"`
}

func (m *movement) location() (ctdf.Location, bool) {
	if m.Waypoint == nil {
		return ctdf.Location{}, false
	}
	return m.Waypoint.Location.location()
}

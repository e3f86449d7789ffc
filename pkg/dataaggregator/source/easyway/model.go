package easyway

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// number decodes JSON numbers, numeric strings and null alike. Anything unparseable is zero.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	raw := strings.Trim(string(data), `"`)
	if raw == "" {
		*n = 0
		return nil
	}

	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*n = 0
		return nil
	}

	*n = number(parsed)
	return nil
}

// text decodes JSON strings and numbers as a string, null as empty
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*t = text(value)
		return nil
	}

	*t = text(data)
	return nil
}

type compileResponse struct {
	Time number            `json:"time"`
	Ways []json.RawMessage `json:"ways"`
}

type way struct {
	WayDetails []json.RawMessage `json:"wayDetails"`
	// WayTime is the whole trip in minutes
	WayTime number `json:"wayTime"`
	// TravelLength is the riding distance in kilometres
	TravelLength number `json:"travelLength"`
}

const (
	detailFirst = "first"
	detailRoute = "route"
	detailLast  = "last"
)

type wayDetail struct {
	Type   string `json:"type"`
	Stop   text   `json:"stop"`
	StopID text   `json:"stop_id"`

	// Length in meters and Time in seconds
	Length number `json:"length"`
	Time   number `json:"time"`

	ID            text `json:"id"`
	StartPosition text `json:"startPosition"`
	StopPosition  text `json:"stopPosition"`
	Route         text `json:"route"`
	RouteType     text `json:"route_type"`
	StopBegin     text `json:"stop_begin"`
	StopBeginID   text `json:"stop_begin_id"`
	StopEnd       text `json:"stop_end"`
	StopEndID     text `json:"stop_end_id"`
}

type compileRouteResponse struct {
	RoutesPoints []json.RawMessage `json:"routes_points"`
}

type routePoints struct {
	RouteID       number            `json:"r"`
	RouteNumber   text              `json:"rn"`
	TransportType text              `json:"tt"`
	CompilePoints []json.RawMessage `json:"compile_points"`
}

// compilePoint is a fixed-point coordinate, I is only set on real stops
type compilePoint struct {
	X int64   `json:"x"`
	Y int64   `json:"y"`
	P int64   `json:"p"`
	I *int64  `json:"i"`
	N *string `json:"n"`
}

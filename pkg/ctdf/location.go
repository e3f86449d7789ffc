package ctdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidLocation = errors.New("location should be lat,lon in decimal degrees")

// Location is a WGS84 point in decimal degrees
type Location struct {
	Latitude  float64 `json:"lat" groups:"basic"`
	Longitude float64 `json:"lon" groups:"basic"`
}

// String renders the location the way upstream APIs expect it ("lat,lon")
func (l Location) String() string {
	return fmt.Sprintf("%f,%f", l.Latitude, l.Longitude)
}

// ParseLocation reads "lat,lon" in decimal degrees, rejecting out of range values
func ParseLocation(raw string) (Location, error) {
	axes := strings.Split(raw, ",")
	if len(axes) != 2 {
		return Location{}, ErrInvalidLocation
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(axes[0]), 64)
	if err != nil || latitude < -90 || latitude > 90 {
		return Location{}, ErrInvalidLocation
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(axes[1]), 64)
	if err != nil || longitude < -180 || longitude > 180 {
		return Location{}, ErrInvalidLocation
	}

	return Location{Latitude: latitude, Longitude: longitude}, nil
}

package geo

import (
	"math"

	"github.com/travigo/journeyplanner/pkg/ctdf"
)

const EarthRadiusMeters = 6371000.0

// FixedPointScale is the factor integer coordinates are multiplied by in fixed-point encodings
const FixedPointScale = 1e6

// HaversineMeters is the great-circle distance between two points
func HaversineMeters(a ctdf.Location, b ctdf.Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	deltaLat := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DecodeFixedPoint1e6 turns an integer pair scaled by 1,000,000 back into degrees.
// x is the latitude and y the longitude.
func DecodeFixedPoint1e6(x int64, y int64) ctdf.Location {
	return ctdf.Location{
		Latitude:  float64(x) / FixedPointScale,
		Longitude: float64(y) / FixedPointScale,
	}
}

// WithinAxisEpsilon reports whether both coordinates differ by less than epsilon degrees
func WithinAxisEpsilon(a ctdf.Location, b ctdf.Location, epsilon float64) bool {
	return math.Abs(a.Latitude-b.Latitude) < epsilon && math.Abs(a.Longitude-b.Longitude) < epsilon
}

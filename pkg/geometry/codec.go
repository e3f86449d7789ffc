package geometry

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/travigo/journeyplanner/pkg/ctdf"
)

const (
	// Precision is the number of decimals kept per coordinate
	Precision = 6

	polylineSeparator = "|"
	pointSeparator    = ";"
	axisSeparator     = ","
)

// Encode serializes the geometry of every leg. Leg types are not kept.
func Encode(itinerary ctdf.Itinerary) string {
	return EncodePolylines(itinerary.Polylines())
}

// EncodePolylines joins polylines with "|" and their points with ";", each point as "lat,lon",
// then percent-escapes the result
func EncodePolylines(polylines [][]ctdf.Location) string {
	encoded := make([]string, 0, len(polylines))
	for _, polyline := range polylines {
		encoded = append(encoded, encodePoints(polyline))
	}

	return url.QueryEscape(strings.Join(encoded, polylineSeparator))
}

// EncodeMarkers serializes stop markers as one escaped ";" separated list
func EncodeMarkers(markers []ctdf.Location) string {
	return url.QueryEscape(encodePoints(markers))
}

func encodePoints(points []ctdf.Location) string {
	encoded := make([]string, 0, len(points))
	for _, point := range points {
		encoded = append(encoded,
			strconv.FormatFloat(point.Latitude, 'f', Precision, 64)+axisSeparator+strconv.FormatFloat(point.Longitude, 'f', Precision, 64),
		)
	}
	return strings.Join(encoded, pointSeparator)
}

var (
	polylineSplitter = strings.NewReplacer("%7C", polylineSeparator, "%7c", polylineSeparator)
	pointSplitter    = strings.NewReplacer("%3B", pointSeparator, "%3b", pointSeparator)
)

// Decode parses escaped or raw encoded geometry. Separators are split before unescaping so a
// malformed point only drops itself. Polylines left without points are dropped too, it never fails.
func Decode(encoded string) [][]ctdf.Location {
	var polylines [][]ctdf.Location

	for _, rawPolyline := range strings.Split(polylineSplitter.Replace(encoded), polylineSeparator) {
		if points := decodePoints(rawPolyline); len(points) > 0 {
			polylines = append(polylines, points)
		}
	}

	return polylines
}

// DecodeMarkers is the inverse of EncodeMarkers with the same leniency as Decode
func DecodeMarkers(encoded string) []ctdf.Location {
	return decodePoints(encoded)
}

func decodePoints(raw string) []ctdf.Location {
	var points []ctdf.Location

	for _, rawPoint := range strings.Split(pointSplitter.Replace(raw), pointSeparator) {
		unescaped, err := url.QueryUnescape(rawPoint)
		if err != nil {
			continue
		}

		axes := strings.Split(strings.TrimSpace(unescaped), axisSeparator)
		if len(axes) != 2 {
			continue
		}

		latitude, err := parseAxis(axes[0])
		if err != nil {
			continue
		}
		longitude, err := parseAxis(axes[1])
		if err != nil {
			continue
		}

		points = append(points, ctdf.Location{Latitude: latitude, Longitude: longitude})
	}

	return points
}

func parseAxis(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, strconv.ErrSyntax
	}
	return value, nil
}

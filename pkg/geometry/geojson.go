package geometry

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
	"github.com/travigo/journeyplanner/pkg/ctdf"
)

// ToGeoJSON exports the itinerary as a FeatureCollection with one LineString per leg that has
// geometry and one Point per stop marker
func ToGeoJSON(itinerary ctdf.Itinerary) ([]byte, error) {
	collection := geojson.NewFeatureCollection()

	for index, leg := range itinerary.Legs {
		points := leg.Points
		if len(points) == 0 && leg.Start != nil && leg.End != nil {
			points = []ctdf.Location{*leg.Start, *leg.End}
		}
		if len(points) < 2 {
			continue
		}

		feature := geojson.NewLineStringFeature(lineString(points))
		feature.SetProperty("leg", index)
		feature.SetProperty("type", string(leg.Type))
		feature.SetProperty("distance_meters", leg.DistanceMeters)
		feature.SetProperty("duration_seconds", leg.DurationSeconds)
		if leg.Type == ctdf.LegTypeRide {
			feature.SetProperty("route_id", leg.RouteID)
			feature.SetProperty("route_name", leg.RouteName)
			feature.SetProperty("transport_type", string(leg.TransportType))
		}

		collection.AddFeature(feature)
	}

	for _, marker := range itinerary.Markers {
		feature := geojson.NewPointFeature([]float64{marker.Longitude, marker.Latitude})
		feature.SetProperty("marker", "stop")
		collection.AddFeature(feature)
	}

	b, err := collection.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "marshalling itinerary to geojson")
	}
	return b, nil
}

func lineString(points []ctdf.Location) [][]float64 {
	coordinates := make([][]float64, len(points))
	for i, point := range points {
		coordinates[i] = []float64{point.Longitude, point.Latitude}
	}
	return coordinates
}

// Package citybus reads the city transit dataset: one JSON array of stops and one of routes.
package citybus

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/ctdf"
)

type stopRecord struct {
	ID        *int64            `json:"id"`
	Name      map[string]string `json:"name"`
	Point     []float64         `json:"point"`
	Routes    []int64           `json:"routes"`
	UpdatedAt string            `json:"updatedAt"`
}

type routeRecord struct {
	ID         *int64            `json:"id"`
	TypeID     int               `json:"typeId"`
	Name       map[string]string `json:"name"`
	Directions []directionRecord `json:"directions"`
}

type directionRecord struct {
	Index    int                   `json:"index"`
	Distance float64               `json:"distance"`
	Stops    []directionStopRecord `json:"stops"`
}

type directionStopRecord struct {
	StopID         *int64  `json:"stopId"`
	LineIndex      int     `json:"lineIndex"`
	OffsetDistance float64 `json:"offsetDistance"`
	Distance       float64 `json:"distance"`
}

// ParseStops decodes a stop.json document. Stops without an id or a two axis point are skipped.
func ParseStops(reader io.Reader) ([]ctdf.Stop, error) {
	var records []stopRecord
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, errors.Wrap(err, "decoding stops")
	}

	stops := make([]ctdf.Stop, 0, len(records))
	for index, record := range records {
		if record.ID == nil || len(record.Point) < 2 {
			log.Debug().Int("index", index).Msg("Skipping stop without id or point")
			continue
		}

		stops = append(stops, ctdf.Stop{
			ID:        *record.ID,
			Name:      localizedName(record.Name),
			Location:  ctdf.Location{Latitude: record.Point[0], Longitude: record.Point[1]},
			RouteIDs:  record.Routes,
			UpdatedAt: record.UpdatedAt,
		})
	}

	return stops, nil
}

// ParseRoutes decodes a route.json document. Direction stops keep their listed order, entries
// without a stop id are dropped.
func ParseRoutes(reader io.Reader) ([]ctdf.Route, error) {
	var records []routeRecord
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, errors.Wrap(err, "decoding routes")
	}

	routes := make([]ctdf.Route, 0, len(records))
	for index, record := range records {
		if record.ID == nil {
			log.Debug().Int("index", index).Msg("Skipping route without id")
			continue
		}

		route := ctdf.Route{
			ID:            *record.ID,
			TransportType: ctdf.TransportTypeFromDatasetID(record.TypeID),
			Name:          localizedName(record.Name),
			Directions:    make([]ctdf.Direction, 0, len(record.Directions)),
		}

		for _, directionRecord := range record.Directions {
			direction := ctdf.Direction{
				Index:         directionRecord.Index,
				TotalDistance: directionRecord.Distance,
				Stops:         make([]ctdf.DirectionStop, 0, len(directionRecord.Stops)),
			}

			for _, stopRecord := range directionRecord.Stops {
				if stopRecord.StopID == nil {
					continue
				}

				direction.Stops = append(direction.Stops, ctdf.DirectionStop{
					StopID:         *stopRecord.StopID,
					SequenceIndex:  stopRecord.LineIndex,
					OffsetDistance: stopRecord.OffsetDistance,
				})
			}

			route.Directions = append(route.Directions, direction)
		}

		routes = append(routes, route)
	}

	return routes, nil
}

func localizedName(names map[string]string) ctdf.LocalizedName {
	name := ctdf.LocalizedName{}
	for locale, value := range names {
		if value != "" {
			name[locale] = value
		}
	}
	return name
}

package twogis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source"
	"github.com/travigo/journeyplanner/pkg/http_client"
)

const (
	SourceName = "2gis"

	DefaultBaseURL = "https://routing.api.2gis.com/public_transport/2.0"
)

var ErrEmptyResponse = errors.New("2gis returned no trip variants")

var DefaultModes = []string{"bus", "tram", "trolleybus", "metro"}

type Source struct {
	Transport http_client.Transport

	BaseURL string
	Key     string
	Locale  string

	Dedup DedupMode
}

func (s Source) GetName() string {
	return SourceName
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf([]ctdf.Itinerary{}),
	}
}

func (s Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.ItineraryPlan:
		return s.Fetch(ctx, q.Origin, q.Destination, q.Modes)
	default:
		return nil, source.UnsupportedSourceError
	}
}

// Fetch plans one trip with the public transport API and converts every variant it returns
func (s Source) Fetch(ctx context.Context, origin ctdf.Location, destination ctdf.Location, modes []ctdf.TransportType) ([]ctdf.Itinerary, error) {
	locale := s.Locale
	if locale == "" {
		locale = "ru"
	}

	requestBody, err := json.Marshal(tripRequest{
		Locale:    locale,
		Source:    pointInfo{Name: "Start", Point: newPoint(origin)},
		Target:    pointInfo{Name: "End", Point: newPoint(destination)},
		Transport: transportModes(modes),
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding 2gis request")
	}

	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	responseBody, err := s.Transport.Do(ctx, http_client.Request{
		Method: http.MethodPost,
		URL:    baseURL + "?key=" + url.QueryEscape(s.Key),
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   requestBody,
	})
	if err != nil {
		return nil, errors.Wrap(err, "requesting 2gis trips")
	}

	var rawVariants []json.RawMessage
	if err := json.Unmarshal(responseBody, &rawVariants); err != nil {
		return nil, errors.Wrap(err, "decoding 2gis response")
	}

	var itineraries []ctdf.Itinerary
	for index, rawVariant := range rawVariants {
		var variant tripVariant
		if err := json.Unmarshal(rawVariant, &variant); err != nil {
			log.Debug().Err(err).Str("source", SourceName).Int("variant", index).Msg("Skipping malformed trip variant")
			continue
		}

		if itinerary, ok := s.convert(variant, origin, destination); ok {
			itineraries = append(itineraries, itinerary)
		}
	}

	if len(itineraries) == 0 {
		return nil, ErrEmptyResponse
	}

	return itineraries, nil
}

func transportModes(modes []ctdf.TransportType) []string {
	var transport []string
	for _, mode := range modes {
		switch mode {
		case ctdf.TransportTypeBus:
			transport = append(transport, "bus")
		case ctdf.TransportTypeTram:
			transport = append(transport, "tram")
		case ctdf.TransportTypeTrolleybus:
			transport = append(transport, "trolleybus")
		case ctdf.TransportTypeMetro:
			transport = append(transport, "metro")
		}
	}

	if len(transport) == 0 {
		return DefaultModes
	}
	return transport
}

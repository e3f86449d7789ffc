package easyway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source"
	"github.com/travigo/journeyplanner/pkg/http_client"
	"golang.org/x/exp/slices"
)

const (
	SourceName = "easyway"

	DefaultBaseURL  = "https://kz.easyway.info"
	DefaultCity     = "almaty"
	DefaultLanguage = "ru"

	DefaultTransports = "metro,trol,bus"

	defaultParallelism = 4
)

var ErrEmptyResponse = errors.New("easyway returned no ways")

type Source struct {
	Transport http_client.Transport

	BaseURL  string
	City     string
	Language string

	// Parallelism bounds the concurrent geometry requests of one plan
	Parallelism int
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

// Fetch compiles the ways between two points and resolves the geometry of each one.
// A way whose geometry cannot be fetched or is degenerate is dropped on its own.
func (s Source) Fetch(ctx context.Context, origin ctdf.Location, destination ctdf.Location, modes []ctdf.TransportType) ([]ctdf.Itinerary, error) {
	ways, err := s.compile(ctx, origin, destination, transports(modes))
	if err != nil {
		return nil, err
	}
	if len(ways) == 0 {
		return nil, ErrEmptyResponse
	}

	type wayResult struct {
		index     int
		itinerary *ctdf.Itinerary
		err       error
	}

	parallelism := s.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}

	p := pool.NewWithResults[wayResult]()
	p.WithMaxGoroutines(parallelism)

	for index, compiledWay := range ways {
		p.Go(func() wayResult {
			itinerary, err := s.resolveWay(ctx, compiledWay, origin, destination)
			return wayResult{index: index, itinerary: itinerary, err: err}
		})
	}

	results := p.Wait()
	slices.SortFunc(results, func(a, b wayResult) int {
		return a.index - b.index
	})

	var itineraries []ctdf.Itinerary
	var firstErr error
	for _, result := range results {
		if result.err != nil {
			log.Debug().Err(result.err).Str("source", SourceName).Int("way", result.index).Msg("Dropping way")
			if firstErr == nil {
				firstErr = result.err
			}
			continue
		}
		if result.itinerary != nil {
			itineraries = append(itineraries, *result.itinerary)
		}
	}

	// only fail when nothing came back and at least one way could not be fetched
	if len(itineraries) == 0 && firstErr != nil {
		return nil, firstErr
	}

	return itineraries, nil
}

func (s Source) endpoint(method string) string {
	baseURL := strings.TrimSuffix(s.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	language := s.Language
	if language == "" {
		language = DefaultLanguage
	}

	city := s.City
	if city == "" {
		city = DefaultCity
	}

	return baseURL + "/ajax/" + url.PathEscape(language) + "/" + url.PathEscape(city) + "/" + method
}

func (s Source) post(ctx context.Context, method string, form url.Values, target interface{}) error {
	responseBody, err := s.Transport.Do(ctx, http_client.Request{
		Method: http.MethodPost,
		URL:    s.endpoint(method),
		Header: http.Header{
			"Content-Type":     []string{"application/x-www-form-urlencoded; charset=UTF-8"},
			"X-Requested-With": []string{"XMLHttpRequest"},
			"Cookie":           []string{"full_version=1"},
		},
		Body: []byte(form.Encode()),
	})
	if err != nil {
		return errors.Wrapf(err, "requesting easyway %s", method)
	}

	if err := json.Unmarshal(responseBody, target); err != nil {
		return errors.Wrapf(err, "decoding easyway %s", method)
	}
	return nil
}

func (s Source) compile(ctx context.Context, origin ctdf.Location, destination ctdf.Location, transports string) ([]way, error) {
	form := url.Values{}
	form.Set("start_lat", formatCoordinate(origin.Latitude))
	form.Set("start_lng", formatCoordinate(origin.Longitude))
	form.Set("stop_lat", formatCoordinate(destination.Latitude))
	form.Set("stop_lng", formatCoordinate(destination.Longitude))
	form.Set("direct", "false")
	form.Set("way_type", "optimal")
	form.Set("transports", transports)
	form.Set("enable_walk_ways", "0")

	var response compileResponse
	if err := s.post(ctx, "compile", form, &response); err != nil {
		return nil, err
	}

	var ways []way
	for index, rawWay := range response.Ways {
		var decoded way
		if err := json.Unmarshal(rawWay, &decoded); err != nil {
			log.Debug().Err(err).Str("source", SourceName).Int("way", index).Msg("Skipping malformed way")
			continue
		}
		ways = append(ways, decoded)
	}

	return ways, nil
}

func (s Source) compileRoute(ctx context.Context, blocks []routeBlock, origin ctdf.Location, destination ctdf.Location) ([]routePoints, error) {
	ids := make([]string, 0, len(blocks))
	starts := make([]string, 0, len(blocks))
	stops := make([]string, 0, len(blocks))
	for _, block := range blocks {
		ids = append(ids, strconv.FormatInt(block.routeID, 10))
		starts = append(starts, block.startPosition)
		stops = append(stops, block.stopPosition)
	}

	form := url.Values{}
	form.Set("ids", strings.Join(ids, ","))
	form.Set("starts", strings.Join(starts, ","))
	form.Set("stops", strings.Join(stops, ","))
	form.Set("a", formatCoordinate(origin.Latitude)+","+formatCoordinate(origin.Longitude))
	form.Set("b", formatCoordinate(destination.Latitude)+","+formatCoordinate(destination.Longitude))

	var response compileRouteResponse
	if err := s.post(ctx, "getCompileRoute", form, &response); err != nil {
		return nil, err
	}

	var groups []routePoints
	for index, rawGroup := range response.RoutesPoints {
		var decoded routePoints
		if err := json.Unmarshal(rawGroup, &decoded); err != nil {
			log.Debug().Err(err).Str("source", SourceName).Int("group", index).Msg("Skipping malformed route points")
			continue
		}
		groups = append(groups, decoded)
	}

	return groups, nil
}

func transports(modes []ctdf.TransportType) string {
	var names []string
	for _, mode := range modes {
		var name string
		switch mode {
		case ctdf.TransportTypeMetro:
			name = "metro"
		case ctdf.TransportTypeTrolleybus:
			name = "trol"
		case ctdf.TransportTypeBus:
			name = "bus"
		case ctdf.TransportTypeTram:
			name = "tram"
		default:
			continue
		}

		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return DefaultTransports
	}
	return strings.Join(names, ",")
}

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

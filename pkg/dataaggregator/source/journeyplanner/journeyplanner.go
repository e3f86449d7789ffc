package journeyplanner

import (
	"context"
	"reflect"

	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source"
	"github.com/travigo/journeyplanner/pkg/stopresolver"
	"github.com/travigo/journeyplanner/pkg/transitgraph"
)

// Source answers local plans, stop searches and route listings from the bundled dataset
type Source struct {
	Graph       *transitgraph.Graph
	Options     Options
	BrowseLimit int
}

func (s Source) GetName() string {
	return SourceName
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf([]ctdf.Itinerary{}),
		reflect.TypeOf([]*ctdf.Stop{}),
		reflect.TypeOf([]*ctdf.Route{}),
	}
}

func (s Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.LocalPlan:
		options := s.Options
		if len(q.Modes) > 0 {
			options.Modes = q.Modes
		}

		return Plan(q.From, q.To, s.Graph, options), nil
	case query.Stop:
		resolver := stopresolver.Resolver{
			Locales:     s.Options.Locales,
			BrowseLimit: s.BrowseLimit,
		}

		if q.Text == "" && q.Unbounded {
			return resolver.Browse(s.Graph.Stops()), nil
		}
		return resolver.FindCandidates(q.Text, s.Graph.Stops()), nil
	case query.Routes:
		if q.TransportType == "" {
			return s.Graph.Routes(), nil
		}
		return s.Graph.RoutesByTransportType(ctdf.ParseTransportType(q.TransportType)), nil
	default:
		return nil, source.UnsupportedSourceError
	}
}

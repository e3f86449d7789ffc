package query

import (
	"strings"

	"github.com/travigo/journeyplanner/pkg/ctdf"
)

// LocalPlan plans between two stop name queries over the bundled dataset
type LocalPlan struct {
	From  string
	To    string
	Modes []ctdf.TransportType
}

// ItineraryPlan plans between two coordinates with the remote providers
type ItineraryPlan struct {
	Origin      ctdf.Location
	Destination ctdf.Location
	Modes       []ctdf.TransportType
}

// CacheKey identifies the plan in result caches
func (q ItineraryPlan) CacheKey() string {
	modes := make([]string, 0, len(q.Modes))
	for _, mode := range q.Modes {
		modes = append(modes, string(mode))
	}

	return q.Origin.String() + "/" + q.Destination.String() + "/" + strings.Join(modes, ",")
}

package stopresolver

import (
	"strings"

	"github.com/travigo/journeyplanner/pkg/ctdf"
)

const DefaultBrowseLimit = 50

// Resolver maps free-text queries onto stops by their localized names
type Resolver struct {
	Locales []string

	// BrowseLimit bounds the result of an empty query. Zero or negative means DefaultBrowseLimit.
	BrowseLimit int
}

// FindCandidates returns every stop whose name in any of the locales contains the query,
// ignoring case, in input order. An empty query returns the first BrowseLimit stops.
func (r *Resolver) FindCandidates(query string, stops []*ctdf.Stop) []*ctdf.Stop {
	if strings.TrimSpace(query) == "" {
		limit := r.BrowseLimit
		if limit <= 0 {
			limit = DefaultBrowseLimit
		}
		if len(stops) > limit {
			return stops[:limit]
		}
		return stops
	}

	return FindCandidates(query, stops, r.Locales)
}

// Browse returns every stop, for callers that need the unbounded empty-query form
func (r *Resolver) Browse(stops []*ctdf.Stop) []*ctdf.Stop {
	return stops
}

// FindCandidates matches the query against the given locales of every stop. A blank query
// matches nothing here, use Resolver for browsing.
func FindCandidates(query string, stops []*ctdf.Stop, locales []string) []*ctdf.Stop {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	var candidates []*ctdf.Stop
	for _, stop := range stops {
		if nameMatches(stop.Name, needle, locales) {
			candidates = append(candidates, stop)
		}
	}

	return candidates
}

func nameMatches(name ctdf.LocalizedName, needle string, locales []string) bool {
	if len(locales) == 0 {
		for _, value := range name {
			if strings.Contains(strings.ToLower(value), needle) {
				return true
			}
		}
		return false
	}

	for _, locale := range locales {
		value, ok := name[locale]
		if ok && strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

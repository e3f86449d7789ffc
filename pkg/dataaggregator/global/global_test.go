package global

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/twogis"
	"github.com/travigo/journeyplanner/pkg/transitgraph"
)

func testGraph() *transitgraph.Graph {
	return transitgraph.New(
		[]ctdf.Stop{
			{ID: 1, Name: ctdf.LocalizedName{"ru": "A"}, Location: ctdf.Location{Latitude: 43.22, Longitude: 76.89}},
			{ID: 2, Name: ctdf.LocalizedName{"ru": "B"}, Location: ctdf.Location{Latitude: 43.23, Longitude: 76.91}},
		},
		[]ctdf.Route{{
			ID:            10,
			TransportType: ctdf.TransportTypeBus,
			Name:          ctdf.LocalizedName{"ru": "R"},
			Directions: []ctdf.Direction{{Stops: []ctdf.DirectionStop{
				{StopID: 1, OffsetDistance: 0},
				{StopID: 2, OffsetDistance: 1500},
			}}},
		}},
	)
}

func sourceNames(aggregator *dataaggregator.Aggregator) []string {
	var names []string
	for _, dataSource := range aggregator.Sources {
		names = append(names, dataSource.GetName())
	}
	return names
}

func TestNewAggregatorLocalOnly(t *testing.T) {
	cfg := config.Default()

	aggregator, err := NewAggregator(&cfg, testGraph(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"local"}, sourceNames(aggregator))

	result := aggregator.PlanLocal(context.Background(), query.LocalPlan{From: "A", To: "B"})
	require.Len(t, result.Itineraries, 1)
	assert.Equal(t, 1500.0, result.Itineraries[0].TotalDistanceMeters)
}

func TestNewAggregatorWithProviders(t *testing.T) {
	cfg := config.Default()
	cfg.Providers.TwoGIS.Enabled = true
	cfg.Providers.TwoGIS.Key = "key"
	cfg.Providers.EasyWay.Enabled = true

	aggregator, err := NewAggregator(&cfg, testGraph(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"local", "2gis", "easyway"}, sourceNames(aggregator))

	_, cached := aggregator.Sources[1].(cachedresults.Source)
	assert.False(t, cached)
}

func TestNewAggregatorTwoGISDedup(t *testing.T) {
	for name, mode := range map[string]twogis.DedupMode{"axis": twogis.DedupAxis, "haversine": twogis.DedupHaversine} {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Providers.TwoGIS.Enabled = true
			cfg.Providers.TwoGIS.Key = "key"
			cfg.Providers.TwoGIS.Dedup = name

			aggregator, err := NewAggregator(&cfg, testGraph(), nil)
			require.NoError(t, err)

			source, ok := aggregator.Sources[1].(twogis.Source)
			require.True(t, ok)
			assert.Equal(t, mode, source.Dedup)
		})
	}
}

func TestNewAggregatorInvalidFilter(t *testing.T) {
	cfg := config.Default()
	cfg.Ranker.Filter = "Transfers <="

	_, err := NewAggregator(&cfg, testGraph(), nil)
	assert.Error(t, err)
}

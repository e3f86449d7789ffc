package global

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/dataaggregator"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/easyway"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/journeyplanner"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/twogis"
	"github.com/travigo/journeyplanner/pkg/dataimporter"
	"github.com/travigo/journeyplanner/pkg/http_client"
	"github.com/travigo/journeyplanner/pkg/ranker"
	"github.com/travigo/journeyplanner/pkg/redis_client"
	"github.com/travigo/journeyplanner/pkg/transitgraph"
)

// Setup loads the dataset, connects the result cache when one is configured and registers
// every enabled source
func Setup(ctx context.Context, cfg *config.Config) (*dataaggregator.Aggregator, error) {
	log.Logger = cfg.Log.Logger(os.Stderr)

	dataset, err := dataimporter.Load(ctx, cfg.Dataset, http_client.New(cfg.Providers.Timeout.Duration, 2))
	if err != nil {
		return nil, err
	}

	graph := transitgraph.New(dataset.Stops, dataset.Routes)

	var resultCache cachedresults.Cache
	redisClient, err := redis_client.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Result cache disabled")
	} else if redisClient != nil {
		resultCache = cachedresults.NewRedisCache(redisClient, cfg.Redis.Expiration.Duration)
	}

	return NewAggregator(cfg, graph, resultCache)
}

// NewAggregator registers the local planner first, then the enabled remote providers behind
// the result cache. A nil cache leaves the providers uncached.
func NewAggregator(cfg *config.Config, graph *transitgraph.Graph, resultCache cachedresults.Cache) (*dataaggregator.Aggregator, error) {
	itineraryRanker, err := ranker.New(cfg.Ranker.Limit, cfg.Ranker.Filter)
	if err != nil {
		return nil, err
	}

	aggregator := dataaggregator.New(cfg.Providers.Timeout.Duration, itineraryRanker)

	aggregator.RegisterSource(journeyplanner.Source{
		Graph: graph,
		Options: journeyplanner.Options{
			CloseThresholdMeters: cfg.Planner.CloseThresholdMeters,
			Locales:              cfg.Planner.Locales,
			PrimaryLocale:        cfg.Planner.PrimaryLocale,
		},
		BrowseLimit: cfg.Planner.BrowseLimit,
	})

	if twoGIS := cfg.Providers.TwoGIS; twoGIS.Enabled {
		aggregator.RegisterSource(cachedresults.Wrap(twogis.Source{
			Transport: http_client.New(twoGIS.Timeout.Duration, twoGIS.Retries),
			BaseURL:   twoGIS.BaseURL,
			Key:       twoGIS.Key,
			Locale:    twoGIS.Locale,
			Dedup:     twogis.ParseDedupMode(twoGIS.Dedup),
		}, resultCache))
	}

	if easyWay := cfg.Providers.EasyWay; easyWay.Enabled {
		aggregator.RegisterSource(cachedresults.Wrap(easyway.Source{
			Transport: http_client.New(easyWay.Timeout.Duration, easyWay.Retries),
			BaseURL:   easyWay.BaseURL,
			City:      easyWay.City,
			Language:  easyWay.Language,
		}, resultCache))
	}

	return aggregator, nil
}

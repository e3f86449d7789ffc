package cachedresults

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
)

const DefaultExpiration = 90 * time.Minute

// Cache is the part of a gocache cache the results wrapper uses
type Cache interface {
	Get(ctx context.Context, key any) (string, error)
	Set(ctx context.Context, key any, object string, options ...store.Option) error
}

// Source wraps a remote itinerary source and keeps its answers for ItineraryPlan queries.
// Every other query goes straight to the wrapped source.
type Source struct {
	Source dataaggregator.DataSource
	Cache  Cache
}

// NewRedisCache builds a gocache cache over the redis store
func NewRedisCache(client *redis.Client, expiration time.Duration) *cache.Cache[string] {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}

	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return cache.New[string](redisStore)
}

// Wrap returns the source unchanged when there is no cache
func Wrap(wrapped dataaggregator.DataSource, c Cache) dataaggregator.DataSource {
	if c == nil {
		return wrapped
	}
	return Source{Source: wrapped, Cache: c}
}

func (s Source) GetName() string {
	return s.Source.GetName()
}

func (s Source) Supports() []reflect.Type {
	return s.Source.Supports()
}

func (s Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	plan, ok := q.(query.ItineraryPlan)
	if !ok {
		return s.Source.Lookup(ctx, q)
	}

	key := s.key(plan)

	if cached, err := s.Cache.Get(ctx, key); err == nil {
		var itineraries []ctdf.Itinerary
		if err := json.Unmarshal([]byte(cached), &itineraries); err == nil {
			log.Debug().Str("source", s.GetName()).Str("key", key).Msg("Cache hit")
			return itineraries, nil
		}
	}

	result, err := s.Source.Lookup(ctx, q)
	if err != nil {
		return result, err
	}

	if itineraries, ok := result.([]ctdf.Itinerary); ok && len(itineraries) > 0 {
		encoded, err := json.Marshal(itineraries)
		if err == nil {
			err = s.Cache.Set(ctx, key, string(encoded))
		}
		if err != nil {
			log.Warn().Err(err).Str("source", s.GetName()).Msg("Failed to cache itineraries")
		}
	}

	return result, nil
}

func (s Source) key(plan query.ItineraryPlan) string {
	return "journeyplanner/itineraries/" + s.GetName() + "/" + plan.CacheKey()
}

package redis_client

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/config"
)

// Connect opens a client for the configured server. An empty address means caching is
// disabled and a nil client is returned without error.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, nil
	}

	options := &redis.Options{
		Addr: cfg.Address,
		DB:   cfg.Database,
	}
	if cfg.Password != "" {
		options.Password = cfg.Password
	}

	client := redis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", cfg.Address)
	}

	log.Info().Str("address", cfg.Address).Int("database", cfg.Database).Msg("Connected to redis")

	return client, nil
}

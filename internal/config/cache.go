package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fieldworks/matchbot/pkg/log"
)

// CacheConfig selects the content cache backend. With no Redis address
// the cache falls back to JSON files under the runtime dir.
type CacheConfig struct {
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:""`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL           time.Duration `env:"CACHE_TTL" envDefault:"24h"`
}

func NewCacheConfig(ctx context.Context) *CacheConfig {
	c := &CacheConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Cache config")
	}
	return c
}

package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fieldworks/matchbot/pkg/log"
)

// DatabaseConfig points at the tournament database that text-to-SQL runs
// against. sqlite3 is the default; mysql is supported for deployments
// where the tournament data lives in a shared server.
type DatabaseConfig struct {
	Driver       string        `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN          string        `env:"DB_DSN" envDefault:""`
	QueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"10s"`
}

func NewDatabaseConfig(ctx context.Context) *DatabaseConfig {
	c := &DatabaseConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Database config")
	}
	return c
}

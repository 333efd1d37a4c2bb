package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/fieldworks/matchbot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"MATCHBOT_RUNTIME_PATH" envDefault:".matchbot"`

	// Transport flags
	EnableTelegram bool   `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableHTTP     bool   `env:"ENABLE_HTTP" envDefault:"true"`
	HTTPAddr       string `env:"HTTP_ADDR" envDefault:":8080"`

	// Tournament website, root for the topic page table
	SiteBaseURL string `env:"SITE_BASE_URL" envDefault:"https://siciliangames.com"`

	// Context management
	ContextWindowSize int `env:"CONTEXT_WINDOW_SIZE" envDefault:"15"`

	// SQL pipeline
	MaxCheckAttempts int `env:"MAX_CHECK_ATTEMPTS" envDefault:"2"`

	// Turn processing
	WorkerCount int `env:"WORKER_COUNT" envDefault:"4"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

// GetRuntimePath resolves a relative runtime path against the home dir,
// the same way the pre-parse resolver does.
func (c AppConfig) GetRuntimePath() string {
	path := c.RuntimePath
	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}

func (c AppConfig) GetThreadsDatabasePath() string {
	return filepath.Join(c.GetRuntimePath(), "threads.db")
}

func (c AppConfig) GetCacheDir() string {
	return filepath.Join(c.GetRuntimePath(), "cache")
}

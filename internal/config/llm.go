package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fieldworks/matchbot/pkg/log"
)

// LLMConfig drives both completion clients. The reasoning model handles
// SQL generation; everything latency-sensitive goes to the fast model.
type LLMConfig struct {
	BaseURL        string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com"`
	APIKey         string        `env:"OPENAI_API_KEY,required,notEmpty"`
	ReasoningModel string        `env:"LLM_REASONING_MODEL" envDefault:"gpt-5-mini"`
	FastModel      string        `env:"LLM_FAST_MODEL" envDefault:"gpt-5-nano"`
	Timeout        time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`
	MaxRetries     int           `env:"LLM_MAX_RETRIES" envDefault:"2"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

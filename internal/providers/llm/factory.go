package llm

import (
	"context"

	"github.com/fieldworks/matchbot/internal/config"
	"github.com/fieldworks/matchbot/pkg/log"
)

// NewClients builds the reasoning and fast completion clients from one
// config. Both point at the same endpoint and differ only in model.
func NewClients(ctx context.Context, cfg *config.LLMConfig) (reasoning, fast *Client) {
	log.FromCtx(ctx).Info().
		Str("reasoning_model", cfg.ReasoningModel).
		Str("fast_model", cfg.FastModel).
		Msg("starting llm clients")

	reasoning = NewClient(Config{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Model:      cfg.ReasoningModel,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
	})
	fast = NewClient(Config{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Model:      cfg.FastModel,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
	})
	return reasoning, fast
}

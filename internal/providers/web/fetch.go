package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fieldworks/matchbot/internal/core"
	"github.com/fieldworks/matchbot/pkg/log"
	"github.com/fieldworks/matchbot/pkg/retry"
	"github.com/inbucket/html2text"
	"github.com/pkoukk/tiktoken-go"
)

const (
	maxResponseSize     = 1 << 20 // 1MB limit
	defaultFetchTimeout = 15 * time.Second
	defaultTokenBudget  = 3000

	tokenEncoding = "cl100k_base"
)

// Fetcher pulls a page over HTTP, strips it down to plain text and trims
// it to a token budget so the page fits in a prompt alongside the question.
type Fetcher struct {
	client      *http.Client
	retrier     *retry.Retrier
	tokenBudget int

	// encoder may be nil when the BPE tables cannot be loaded; trimming
	// then falls back to a whitespace-word approximation.
	encoder *tiktoken.Tiktoken
}

func NewFetcherWithTimeout(ctx context.Context, timeout time.Duration, retryCfg *retry.Config) *Fetcher {
	if retryCfg == nil {
		retryCfg = retry.NewDefaultConfig()
	}

	encoder, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("token encoder unavailable, trimming pages by word count")
		encoder = nil
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		retrier:     retry.NewRetrier(retryCfg),
		tokenBudget: defaultTokenBudget,
		encoder:     encoder,
	}
}

func NewFetcher(ctx context.Context) *Fetcher {
	return NewFetcherWithTimeout(ctx, defaultFetchTimeout, nil)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var body string
	err := f.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", core.BotUserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch url: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		}

		limitedReader := io.LimitReader(resp.Body, maxResponseSize)

		body, err = html2text.FromReader(limitedReader, html2text.Options{
			OmitLinks:    false,
			PrettyTables: true,
		})
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}

		return nil
	})

	if err != nil {
		return "", err
	}

	return f.trim(body), nil
}

// trim cuts the page text down to the token budget. Pages under budget
// pass through untouched.
func (f *Fetcher) trim(text string) string {
	if f.tokenBudget <= 0 {
		return text
	}

	if f.encoder != nil {
		tokens := f.encoder.Encode(text, nil, nil)
		if len(tokens) <= f.tokenBudget {
			return text
		}
		return f.encoder.Decode(tokens[:f.tokenBudget])
	}

	words := strings.Fields(text)
	if len(words) <= f.tokenBudget {
		return text
	}
	return strings.Join(words[:f.tokenBudget], " ")
}

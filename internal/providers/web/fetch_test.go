package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fieldworks/matchbot/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig() *retry.Config {
	return &retry.Config{
		MaxRetries:    2,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
		BackoffFactor: 1.0,
	}
}

func TestFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name            string
		mockServer      func() *httptest.Server
		useShortTimeout bool
		wantErr         bool
		wantContains    string
		wantErrMsg      string
	}{
		{
			name: "html page becomes plain text",
			mockServer: func() *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "text/html")
					fmt.Fprint(w, `<html><body><h1>Match Schedule</h1><p>Badminton final on Saturday</p></body></html>`)
				}))
			},
			wantContains: "Badminton final on Saturday",
		},
		{
			name: "404 error",
			mockServer: func() *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusNotFound)
				}))
			},
			wantErr:    true,
			wantErrMsg: "HTTP 404",
		},
		{
			name: "500 error",
			mockServer: func() *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusInternalServerError)
				}))
			},
			wantErr:    true,
			wantErrMsg: "HTTP 500",
		},
		{
			name: "large response is capped at 1MB",
			mockServer: func() *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "text/plain")
					for i := 0; i < 1024*1024+100; i++ {
						w.Write([]byte("a"))
					}
				}))
			},
			wantContains: "a",
		},
		{
			name: "timeout handling",
			mockServer: func() *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					time.Sleep(500 * time.Millisecond)
				}))
			},
			useShortTimeout: true,
			wantErr:         true,
			wantErrMsg:      "failed to fetch url",
		},
		{
			name: "preserves links in html",
			mockServer: func() *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "text/html")
					fmt.Fprint(w, `<html><body><p>See the <a href="https://example.com/standings">standings page</a></p></body></html>`)
				}))
			},
			wantContains: "standings page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := tt.mockServer()
			defer server.Close()

			ctx := context.Background()
			timeout := defaultFetchTimeout
			if tt.useShortTimeout {
				timeout = 100 * time.Millisecond
			}
			fetcher := NewFetcherWithTimeout(ctx, timeout, fastRetryConfig())

			result, err := fetcher.Fetch(ctx, server.URL)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, result, tt.wantContains)
		})
	}
}

func TestFetcher_RetryBehavior(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "Success after retries")
	}))
	defer server.Close()

	fetcher := NewFetcherWithTimeout(context.Background(), defaultFetchTimeout, fastRetryConfig())

	result, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, result, "Success after retries")
	assert.Equal(t, 3, attempts, "should retry failed requests")
}

func TestFetcher_UserAgent(t *testing.T) {
	var receivedUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	fetcher := NewFetcherWithTimeout(context.Background(), defaultFetchTimeout, fastRetryConfig())

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, receivedUA, "MatchBot", "should set custom user agent")
}

func TestFetcher_TrimKeepsShortPages(t *testing.T) {
	f := &Fetcher{tokenBudget: 50}

	text := "A short page about the tournament."
	assert.Equal(t, text, f.trim(text))
}

func TestFetcher_TrimCutsToBudget(t *testing.T) {
	f := &Fetcher{tokenBudget: 5}

	text := strings.Repeat("word ", 100)
	trimmed := f.trim(text)
	assert.Equal(t, "word word word word word", trimmed)
}

func TestFetcher_TrimDisabled(t *testing.T) {
	f := &Fetcher{tokenBudget: 0}

	text := strings.Repeat("word ", 100)
	assert.Equal(t, text, f.trim(text))
}

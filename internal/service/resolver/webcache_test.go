package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldworks/matchbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(_ context.Context, _ []core.Message) (string, error) {
	f.calls++
	return f.response, f.err
}

type fakeCache struct {
	entries  map[string]string
	setCalls int
	lastTTL  time.Duration
	getErr   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.entries[key]
	return v, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	f.setCalls++
	f.lastTTL = ttl
	f.entries[key] = value
	return nil
}

type fakeFetcher struct {
	text    string
	err     error
	calls   int
	lastURL string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls++
	f.lastURL = url
	return f.text, f.err
}

func newTestResolver(llm *fakeCompleter, cache *fakeCache, fetcher *fakeFetcher) *WebCache {
	return NewWebCache(llm, cache, fetcher, "https://games.example.com/", 24*time.Hour)
}

func TestWebCache_RoutesTopicsToPages(t *testing.T) {
	tests := []struct {
		question string
		wantURL  string
	}{
		{"what's the schedule for badminton?", "https://games.example.com/schedule.php"},
		{"show me the fixtures", "https://games.example.com/schedule.php"},
		{"who won the football tournament", "https://games.example.com/winners.php"},
		{"current standings please", "https://games.example.com/standing.php"},
		{"who are the sponsors?", "https://games.example.com/index.php"},
		{"list the partners", "https://games.example.com/index.php"},
		{"who is the organizer", "https://games.example.com/index.php"},
		{"how do I contact you", "https://games.example.com/contact.html"},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			llm := &fakeCompleter{response: "Here is the answer."}
			fetcher := &fakeFetcher{text: "page body"}
			resolver := newTestResolver(llm, newFakeCache(), fetcher)

			answer, err := resolver.Answer(context.Background(), tt.question)
			require.NoError(t, err)
			assert.Equal(t, "Here is the answer.", answer)
			assert.Equal(t, tt.wantURL, fetcher.lastURL)
		})
	}
}

func TestWebCache_UnsupportedTopic(t *testing.T) {
	llm := &fakeCompleter{}
	fetcher := &fakeFetcher{}
	resolver := newTestResolver(llm, newFakeCache(), fetcher)

	answer, err := resolver.Answer(context.Background(), "tell me about the referee rulebook")
	require.NoError(t, err)
	assert.Equal(t, MsgUnsupportedTopic, answer)
	assert.Zero(t, fetcher.calls, "no mapping, no fetch")
	assert.Zero(t, llm.calls, "no mapping, no model call")
}

func TestWebCache_ServesFromCacheWithoutFetching(t *testing.T) {
	llm := &fakeCompleter{response: "The final is on Saturday."}
	cache := newFakeCache()
	cache.entries["web_scrape:https://games.example.com/schedule.php"] = "cached schedule text"
	fetcher := &fakeFetcher{text: "fresh text"}
	resolver := newTestResolver(llm, cache, fetcher)

	answer, err := resolver.Answer(context.Background(), "when is the schedule?")
	require.NoError(t, err)
	assert.Equal(t, "The final is on Saturday.", answer)
	assert.Zero(t, fetcher.calls, "cache hit must not refetch")
}

func TestWebCache_FetchesAndStoresOnMiss(t *testing.T) {
	llm := &fakeCompleter{response: "Phoenix won."}
	cache := newFakeCache()
	fetcher := &fakeFetcher{text: "winners page text"}
	resolver := newTestResolver(llm, cache, fetcher)

	_, err := resolver.Answer(context.Background(), "who is the winner?")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 1, cache.setCalls)
	assert.Equal(t, 24*time.Hour, cache.lastTTL)
	assert.Equal(t, "winners page text", cache.entries["web_scrape:https://games.example.com/winners.php"])
}

func TestWebCache_FetchFailureDegrades(t *testing.T) {
	llm := &fakeCompleter{}
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	resolver := newTestResolver(llm, newFakeCache(), fetcher)

	answer, err := resolver.Answer(context.Background(), "who won?")
	require.NoError(t, err, "a fetch failure must not fail the turn")
	assert.Equal(t, MsgNoInformation, answer)
	assert.Zero(t, llm.calls)
}

func TestWebCache_PageDoesNotAnswer(t *testing.T) {
	llm := &fakeCompleter{response: "I do not have sufficient information to answer this question."}
	fetcher := &fakeFetcher{text: "unrelated page text"}
	resolver := newTestResolver(llm, newFakeCache(), fetcher)

	answer, err := resolver.Answer(context.Background(), "who won the chess tournament?")
	require.NoError(t, err)
	assert.Equal(t, MsgNoInformation, answer)
}

func TestWebCache_CacheErrorFallsBackToFetch(t *testing.T) {
	llm := &fakeCompleter{response: "Answer from fresh page."}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	fetcher := &fakeFetcher{text: "page body"}
	resolver := newTestResolver(llm, cache, fetcher)

	answer, err := resolver.Answer(context.Background(), "show the standings")
	require.NoError(t, err)
	assert.Equal(t, "Answer from fresh page.", answer)
	assert.Equal(t, 1, fetcher.calls)
}

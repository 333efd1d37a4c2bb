package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/fieldworks/matchbot/internal/core"
	"github.com/fieldworks/matchbot/internal/service/prompts"
	"github.com/fieldworks/matchbot/pkg/log"
)

const (
	// Fixed replies for the two ways this branch can come up empty.
	MsgUnsupportedTopic = "Sorry, I don't have a page for that topic. I can help with the schedule, winners, standings, sponsors, organizers and contact details."
	MsgNoInformation    = "Sorry, we couldn't find any relevant information. Please ask if you have any other questions about the tournament."

	// notFoundToken is the marker the page-QA prompt emits when the page
	// does not answer the question.
	notFoundToken = "I do not have sufficient information"
)

type topicRoute struct {
	keyword string
	path    string
}

// topicRoutes maps question keywords to website pages. Order matters:
// the first containment hit wins.
var topicRoutes = []topicRoute{
	{"schedule", "/schedule.php"},
	{"fixtures", "/schedule.php"},
	{"winner", "/winners.php"},
	{"standing", "/standing.php"},
	{"sponsor", "/index.php"},
	{"partner", "/index.php"},
	{"organizer", "/index.php"},
	{"contact", "/contact.html"},
}

// WebCache answers website questions from a TTL cache of page text,
// fetching through on a miss. A fetch failure degrades to the fixed
// no-information reply instead of failing the turn.
type WebCache struct {
	reasoning core.Completer
	cache     core.ContentCache
	fetcher   core.PageFetcher
	baseURL   string
	ttl       time.Duration
}

func NewWebCache(reasoning core.Completer, cache core.ContentCache, fetcher core.PageFetcher, baseURL string, ttl time.Duration) *WebCache {
	return &WebCache{
		reasoning: reasoning,
		cache:     cache,
		fetcher:   fetcher,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		ttl:       ttl,
	}
}

func (w *WebCache) Answer(ctx context.Context, question string) (string, error) {
	url, ok := w.route(question)
	if !ok {
		return MsgUnsupportedTopic, nil
	}

	pageText, err := w.pageText(ctx, url)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("url", url).Msg("page fetch failed, degrading to no-information reply")
		return MsgNoInformation, nil
	}
	if pageText == "" {
		return MsgNoInformation, nil
	}

	answer, err := w.reasoning.Complete(ctx, prompts.AnswerFromPage(pageText, question))
	if err != nil {
		return "", err
	}
	if strings.Contains(answer, notFoundToken) {
		return MsgNoInformation, nil
	}
	return answer, nil
}

func (w *WebCache) route(question string) (string, bool) {
	lower := strings.ToLower(question)
	for _, r := range topicRoutes {
		if strings.Contains(lower, r.keyword) {
			return w.baseURL + r.path, true
		}
	}
	return "", false
}

func (w *WebCache) pageText(ctx context.Context, url string) (string, error) {
	cacheKey := "web_scrape:" + url

	cached, ok, err := w.cache.Get(ctx, cacheKey)
	if err != nil {
		// A broken cache store reads as a miss; the fetch below decides
		// whether the turn can still be answered.
		log.FromCtx(ctx).Warn().Err(err).Msg("content cache read failed")
	}
	if ok {
		log.FromCtx(ctx).Debug().Str("url", url).Msg("serving page text from cache")
		return cached, nil
	}

	text, err := w.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	if text != "" {
		if err := w.cache.Set(ctx, cacheKey, text, w.ttl); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("content cache write failed")
		}
	}
	return text, nil
}

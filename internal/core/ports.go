package core

import (
	"context"
	"time"
)

// Completer is a synchronous text-completion service. Two instances are
// injected where latency matters: a low-latency "fast" model and a
// higher-latency "reasoning" model.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// ConversationStore is the append-only message log for threads. Appending
// to an unknown thread creates it implicitly; there is no delete or update.
type ConversationStore interface {
	Append(ctx context.Context, threadID, role, content string) error
	LastN(ctx context.Context, threadID string, n int) ([]StoredMessage, error)
}

type StoredMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentCache is a TTL-bounded key→text cache. Get returns ok=false for
// both a missing key and an expired entry; expired content must be
// refetched before it can be read again.
type ContentCache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// SQLRunner exposes the tournament database: schema introspection plus
// read-only execution. ExecuteReadOnly returns rows rendered as text.
type SQLRunner interface {
	ListTables(ctx context.Context) ([]string, error)
	Schema(ctx context.Context, tables []string) (string, error)
	ExecuteReadOnly(ctx context.Context, query string) (string, error)
	Dialect() string
}

// PageFetcher retrieves a web resource as plain text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Deliverer pushes an answer to the originating channel. Implementations
// are expected to split long text into bounded-size segments.
type Deliverer interface {
	Deliver(ctx context.Context, destination, text string) error
}

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fieldworks/matchbot/pkg/log"
)

// FileCache keeps one JSON file per key under a cache directory. It is the
// fallback when no redis address is configured. Staleness is checked on
// read: an entry older than its TTL counts as a miss, not an error.
type FileCache struct {
	dir string

	// now is swappable so freshness can be tested without sleeping.
	now func() time.Time
}

type fileEntry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
	TTL       int64     `json:"ttl_seconds"`
}

func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

func (c *FileCache) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(c.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry behaves like a miss; the caller will refetch
		// and overwrite it.
		log.FromCtx(ctx).Warn().Err(err).Str("key", key).Msg("discarding corrupt cache entry")
		return "", false, nil
	}

	age := c.now().Sub(entry.FetchedAt)
	if age > time.Duration(entry.TTL)*time.Second {
		log.FromCtx(ctx).Debug().Str("key", key).Dur("age", age).Msg("cache entry expired")
		return "", false, nil
	}

	return entry.Value, true, nil
}

func (c *FileCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := fileEntry{
		Key:       key,
		Value:     value,
		FetchedAt: c.now(),
		TTL:       int64(ttl.Seconds()),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := os.WriteFile(c.path(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (c *FileCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:16])+".json")
}

package pagecache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-unicms/internal/locale"
)

// DefaultTTL is how long a rendered composite page is served from cache.
const DefaultTTL = 15 * time.Minute

// Config sizes the cache. A non-positive TTL disables caching.
type Config struct {
	TTL      time.Duration
	Capacity int
	Shards   int
}

func DefaultConfig() Config {
	return Config{TTL: DefaultTTL, Capacity: 512, Shards: 8}
}

// FetchFunc renders a page on a cache miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache stores encoded composite pages keyed by page name and language.
// Cached bodies are returned as-is, so a hit is byte-identical to the miss
// that filled it.
type Cache struct {
	client *sturdyc.Client[[]byte]
	ttl    time.Duration

	mu   sync.Mutex
	keys map[string]struct{}
}

func New(cfg Config) *Cache {
	c := &Cache{ttl: cfg.TTL, keys: map[string]struct{}{}}
	if cfg.TTL <= 0 {
		return c
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultConfig().Capacity
	}
	if cfg.Shards <= 0 {
		cfg.Shards = DefaultConfig().Shards
	}
	c.client = sturdyc.New[[]byte](cfg.Capacity, cfg.Shards, cfg.TTL, 10)
	return c
}

// Key returns the cache key of page name in lang.
func Key(name string, lang locale.Language) string {
	return strings.ToLower(strings.TrimSpace(name)) + ":" + string(lang)
}

func (c *Cache) TTL() time.Duration { return c.ttl }

// GetOrFetch returns the cached page or renders it with fetch. Failed
// renders are not cached.
func (c *Cache) GetOrFetch(ctx context.Context, name string, lang locale.Language, fetch FetchFunc) ([]byte, error) {
	if c == nil || c.client == nil {
		return fetch(ctx)
	}
	key := Key(name, lang)
	body, err := c.client.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.keys[key] = struct{}{}
	c.mu.Unlock()
	return body, nil
}

// Invalidate drops every language variant of page name.
func (c *Cache) Invalidate(name string) int {
	if c == nil || c.client == nil {
		return 0
	}
	prefix := Key(name, "")
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key := range c.keys {
		if strings.HasPrefix(key, prefix) {
			c.client.Delete(key)
			delete(c.keys, key)
			dropped++
		}
	}
	return dropped
}

// InvalidateAll drops every cached page.
func (c *Cache) InvalidateAll() int {
	if c == nil || c.client == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := len(c.keys)
	for key := range c.keys {
		c.client.Delete(key)
	}
	clear(c.keys)
	return dropped
}

// Keys lists the cached keys in sorted order.
func (c *Cache) Keys() []string {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.keys))
	for key := range c.keys {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

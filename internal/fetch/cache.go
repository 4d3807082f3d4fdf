package fetch

import (
	"context"
	"sync"
	"time"
)

// cacheEntry holds fetched content with expiration.
type cacheEntry struct {
	content   string
	expiresAt time.Time
}

// contentCache is a thread-safe in-memory cache with TTL, keyed by URL.
type contentCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func newContentCache(ttl time.Duration) *contentCache {
	return &contentCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *contentCache) get(url string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[url]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.content, true
}

func (c *contentCache) set(url, content string) {
	c.mu.Lock()
	c.entries[url] = cacheEntry{content: content, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// CachedFetcher wraps a fetcher with a TTL content cache so that a URL
// shared by several rule sets is fetched once per TTL window. Errors
// are never cached.
type CachedFetcher struct {
	inner Fetcher
	cache *contentCache
}

// WithCache wraps a fetcher with a content cache. A non-positive TTL
// returns the fetcher unchanged.
func WithCache(inner Fetcher, ttl time.Duration) Fetcher {
	if ttl <= 0 {
		return inner
	}
	return &CachedFetcher{inner: inner, cache: newContentCache(ttl)}
}

// Fetch implements Fetcher.
func (f *CachedFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	if content, ok := f.cache.get(url); ok {
		return content, nil
	}
	content, err := f.inner.Fetch(ctx, url, headers)
	if err != nil {
		return "", err
	}
	f.cache.set(url, content)
	return content, nil
}

package amiyblog

import (
	"sync"
	"time"
)

// URLCache is an in-memory copy of the image URL registry with TTL, so a
// render call does not hit SQLite for every image lookup.
type URLCache struct {
	mu      sync.RWMutex
	urls    map[string]string
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewURLCache creates a URLCache backed by the given Store.
func NewURLCache(s *Store, ttl time.Duration) *URLCache {
	return &URLCache{store: s, ttl: ttl}
}

func (c *URLCache) valid() bool {
	return c.urls != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *URLCache) Invalidate() {
	c.mu.Lock()
	c.urls = nil
	c.mu.Unlock()
}

// URLMap returns a copy of the keyword→URL mapping, reloading from the
// store when the cached copy is stale. The copy keeps callers from mutating
// shared state when they merge request-supplied URLs over it.
func (c *URLCache) URLMap() (map[string]string, error) {
	c.mu.RLock()
	if c.valid() {
		out := copyURLs(c.urls)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid() {
		urls, err := c.store.ImageURLMap()
		if err != nil {
			return nil, err
		}
		c.urls = urls
		c.fetched = time.Now()
	}
	return copyURLs(c.urls), nil
}

func copyURLs(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

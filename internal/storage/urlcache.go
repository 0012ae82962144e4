package storage

import (
	"context"
	"sync"
	"time"
)

// ReadURLSigner issues short-lived read URLs for stored objects.
type ReadURLSigner interface {
	SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type urlEntry struct {
	url     string
	expires time.Time
}

// CachingSigner wraps a ReadURLSigner with an in-memory cache. A cached URL
// is reused only for the first half of its signature window, so callers
// always receive a URL with meaningful remaining life.
type CachingSigner struct {
	base ReadURLSigner

	mu    sync.RWMutex
	items map[string]urlEntry
}

// NewCachingSigner returns a signer that caches read URLs per key.
func NewCachingSigner(base ReadURLSigner) *CachingSigner {
	return &CachingSigner{
		base:  base,
		items: make(map[string]urlEntry),
	}
}

// SignedReadURL returns a cached URL when one is still fresh, otherwise it
// delegates to the underlying signer and stores the result.
func (c *CachingSigner) SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.url, nil
	}

	url, err := c.base.SignedReadURL(ctx, key, ttl)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.items[key] = urlEntry{url: url, expires: now.Add(ttl / 2)}
	c.mu.Unlock()

	return url, nil
}

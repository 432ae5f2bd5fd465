package tenant

import (
	"context"
	"sync"
	"time"
)

// Cache stores tenant records between requests. Only the tenant record is
// ever cached; memberships and roles are not cacheable by design.
type Cache interface {
	Get(ctx context.Context, key string) (*Tenant, bool)
	Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Close() error
}

// DefaultCacheSize is the default maximum number of cached tenant records.
const DefaultCacheSize = 1000

type cacheItem struct {
	tenant    *Tenant
	expiresAt time.Time
}

// inMemoryCache is the default in-process cache with TTL expiry and a
// simple size cap.
type inMemoryCache struct {
	mu      sync.RWMutex
	items   map[string]cacheItem
	maxSize int
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

// NewInMemoryCache creates an in-process tenant cache with background
// cleanup of expired entries.
func NewInMemoryCache() Cache {
	return NewInMemoryCacheWithSize(DefaultCacheSize)
}

// NewInMemoryCacheWithSize creates an in-process cache capped at maxSize
// entries.
func NewInMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	c := &inMemoryCache{
		items:   make(map[string]cacheItem),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.cleanup()
	return c
}

func (c *inMemoryCache) Get(ctx context.Context, key string) (*Tenant, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		c.Delete(ctx, key)
		return nil, false
	}
	return item.tenant, true
}

func (c *inMemoryCache) Set(_ context.Context, key string, tenant *Tenant, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		// Evict the entry closest to expiry rather than tracking full LRU
		// order; tenant records are tiny and churn is low.
		var victim string
		var victimExpiry time.Time
		first := true
		for k, it := range c.items {
			if first || it.expiresAt.Before(victimExpiry) {
				victim = k
				victimExpiry = it.expiresAt
				first = false
			}
		}
		delete(c.items, victim)
	}

	c.items[key] = cacheItem{tenant: tenant, expiresAt: time.Now().Add(ttl)}
}

func (c *inMemoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *inMemoryCache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *inMemoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}
}

func (c *inMemoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

// noOpCache disables caching; every resolution hits the provider.
type noOpCache struct{}

// NewNoOpCache creates a cache that never stores anything.
func NewNoOpCache() Cache { return &noOpCache{} }

func (n *noOpCache) Get(context.Context, string) (*Tenant, bool)              { return nil, false }
func (n *noOpCache) Set(context.Context, string, *Tenant, time.Duration)      {}
func (n *noOpCache) Delete(context.Context, string)                           {}
func (n *noOpCache) Close() error                                             { return nil }

package jwks

import (
	"context"
	"crypto"
	"errors"
	"net/http"
	"sync"
	"time"
)

const (
	// DefaultTTL is the key set lifetime used when an endpoint does not set one.
	DefaultTTL = time.Hour

	// DefaultFetchTimeout bounds a single JWKS fetch so a slow provider
	// cannot stall token validation indefinitely.
	DefaultFetchTimeout = 10 * time.Second
)

// Endpoint describes one provider's JWKS location. Endpoints are fixed at
// cache construction; there is no runtime provider registration.
type Endpoint struct {
	Name string
	URL  string
	TTL  time.Duration
}

// Option configures the cache.
type Option func(*Cache)

// WithFetcher replaces the HTTP fetcher, mainly for tests.
func WithFetcher(f Fetcher) Option {
	return func(c *Cache) {
		if f != nil {
			c.fetcher = f
		}
	}
}

// WithHTTPClient sets the HTTP client used for JWKS fetches.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Cache) {
		if client != nil {
			c.fetcher = NewHTTPFetcher(client)
		}
	}
}

// WithFetchTimeout bounds each network fetch. A timeout surfaces as
// ErrNetwork to the caller that triggered the refresh.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// WithStaleWhileRevalidate controls what concurrent callers see while a
// refresh is in flight. When enabled, callers holding an expired but usable
// set are served that stale set immediately and the refresh completes in
// the background. When disabled (the default), callers block on the single
// in-flight refresh so they always observe the freshest available keys.
func WithStaleWhileRevalidate(enabled bool) Option {
	return func(c *Cache) {
		c.staleWhileRevalidate = enabled
	}
}

// flight tracks one in-progress refresh so concurrent triggers join it
// instead of issuing duplicate fetches.
type flight struct {
	done chan struct{}
	err  error // written before done is closed
}

type providerState struct {
	endpoint Endpoint

	mu      sync.Mutex
	current *KeySet // replaced wholesale on successful refresh
	flight  *flight // non-nil while exactly one refresh is running
}

// Cache holds one KeySet per configured provider, refreshing on TTL expiry
// with single-flight deduplication and last-known-good fallback. It is the
// only component in the pipeline with mutable state shared across requests,
// and it is safe for concurrent use.
type Cache struct {
	fetcher              Fetcher
	fetchTimeout         time.Duration
	staleWhileRevalidate bool

	// providers is immutable after construction.
	providers map[string]*providerState

	closeOnce sync.Once
	closed    chan struct{}
}

// NewCache creates a cache for the given endpoints. The cache performs no
// network traffic until the first key lookup for a provider.
func NewCache(endpoints []Endpoint, opts ...Option) *Cache {
	c := &Cache{
		fetchTimeout: DefaultFetchTimeout,
		providers:    make(map[string]*providerState, len(endpoints)),
		closed:       make(chan struct{}),
	}

	for _, ep := range endpoints {
		if ep.TTL <= 0 {
			ep.TTL = DefaultTTL
		}
		c.providers[ep.Name] = &providerState{endpoint: ep}
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.fetcher == nil {
		c.fetcher = NewHTTPFetcher(&http.Client{Timeout: DefaultFetchTimeout})
	}

	return c
}

// Keys returns the provider's current key set, fetching or refreshing as
// needed. A still-fresh cached set is returned without blocking even while
// a refresh for another caller is in flight. On refresh failure the
// previous set, if any, is returned instead of an error.
func (c *Cache) Keys(ctx context.Context, provider string) (*KeySet, error) {
	st, ok := c.providers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	select {
	case <-c.closed:
		return nil, ErrClosed
	default:
	}

	st.mu.Lock()
	cur := st.current
	if cur.Fresh(time.Now()) {
		st.mu.Unlock()
		return cur, nil
	}

	fl := st.flight
	if fl == nil {
		fl = &flight{done: make(chan struct{})}
		st.flight = fl
		go c.refresh(st, fl)
	}

	if c.staleWhileRevalidate && cur != nil {
		st.mu.Unlock()
		return cur, nil
	}
	st.mu.Unlock()

	return c.await(ctx, st, fl)
}

// Key returns the provider's public key for the given key id. An unknown
// kid on a fresh set triggers one forced refresh before giving up, so key
// rotation at the provider is picked up without waiting for TTL expiry.
func (c *Cache) Key(ctx context.Context, provider, kid string) (crypto.PublicKey, error) {
	set, err := c.Keys(ctx, provider)
	if err != nil {
		return nil, err
	}
	if key, ok := set.Key(kid); ok {
		return key, nil
	}

	set, err = c.Refresh(ctx, provider)
	if err != nil {
		return nil, err
	}
	if key, ok := set.Key(kid); ok {
		return key, nil
	}
	return nil, ErrKeyNotFound
}

// Refresh forces a refresh for the provider, joining any refresh already in
// flight. Like Keys, a failed refresh falls back to the previous set when
// one exists.
func (c *Cache) Refresh(ctx context.Context, provider string) (*KeySet, error) {
	st, ok := c.providers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	select {
	case <-c.closed:
		return nil, ErrClosed
	default:
	}

	st.mu.Lock()
	fl := st.flight
	if fl == nil {
		fl = &flight{done: make(chan struct{})}
		st.flight = fl
		go c.refresh(st, fl)
	}
	st.mu.Unlock()

	return c.await(ctx, st, fl)
}

// await blocks until the given refresh completes or the caller's context
// is done, then resolves the result with last-known-good fallback.
func (c *Cache) await(ctx context.Context, st *providerState, fl *flight) (*KeySet, error) {
	select {
	case <-fl.done:
	case <-ctx.Done():
		return nil, errors.Join(ErrNetwork, ctx.Err())
	}

	st.mu.Lock()
	cur := st.current
	st.mu.Unlock()

	if fl.err != nil {
		// A usable cached set converts a provider outage into degraded
		// availability; the failure surfaces only when nothing is cached.
		if cur != nil {
			return cur, nil
		}
		return nil, fl.err
	}
	return cur, nil
}

// refresh performs the single in-flight fetch for a provider. It runs on a
// background context so a caller timeout does not abort the fetch for the
// other callers joined on it.
func (c *Cache) refresh(st *providerState, fl *flight) {
	ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	defer cancel()

	keys, err := c.fetcher.Fetch(ctx, st.endpoint.URL)

	st.mu.Lock()
	if err == nil {
		st.current = NewKeySet(keys, time.Now(), st.endpoint.TTL)
	}
	fl.err = err
	st.flight = nil
	st.mu.Unlock()

	close(fl.done)
}

// Close shuts the cache down. Lookups after Close return ErrClosed;
// refreshes already in flight are left to finish on their own bounded
// timeouts.
func (c *Cache) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

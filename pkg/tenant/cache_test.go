package tenant_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/pkg/tenant"
)

func TestInMemoryCache(t *testing.T) {
	t.Parallel()

	t.Run("stores and retrieves tenants", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		t.Cleanup(func() { _ = cache.Close() })

		acme := &tenant.Tenant{ID: uuid.New(), Slug: "acme", Active: true}
		cache.Set(context.Background(), "acme", acme, time.Minute)

		got, ok := cache.Get(context.Background(), "acme")
		require.True(t, ok)
		assert.Equal(t, acme.ID, got.ID)
	})

	t.Run("misses after ttl expiry", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		t.Cleanup(func() { _ = cache.Close() })

		cache.Set(context.Background(), "acme", &tenant.Tenant{Slug: "acme"}, 10*time.Millisecond)
		time.Sleep(20 * time.Millisecond)

		_, ok := cache.Get(context.Background(), "acme")
		assert.False(t, ok)
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		t.Cleanup(func() { _ = cache.Close() })

		cache.Set(context.Background(), "acme", &tenant.Tenant{Slug: "acme"}, time.Minute)
		cache.Delete(context.Background(), "acme")

		_, ok := cache.Get(context.Background(), "acme")
		assert.False(t, ok)
	})

	t.Run("evicts when the size cap is reached", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCacheWithSize(3)
		t.Cleanup(func() { _ = cache.Close() })

		for i := range 4 {
			key := fmt.Sprintf("tenant-%d", i)
			cache.Set(context.Background(), key, &tenant.Tenant{Slug: key}, time.Minute)
		}

		hits := 0
		for i := range 4 {
			if _, ok := cache.Get(context.Background(), fmt.Sprintf("tenant-%d", i)); ok {
				hits++
			}
		}
		assert.Equal(t, 3, hits)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		require.NoError(t, cache.Close())
		require.NoError(t, cache.Close())
	})
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := tenant.NewNoOpCache()
	cache.Set(context.Background(), "acme", &tenant.Tenant{Slug: "acme"}, time.Minute)

	_, ok := cache.Get(context.Background(), "acme")
	assert.False(t, ok)
	require.NoError(t, cache.Close())
}

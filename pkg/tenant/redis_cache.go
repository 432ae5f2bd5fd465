package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache shares tenant records across service instances through Redis.
// Failures degrade to cache misses; a broken Redis never fails a request.
type redisCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisCache creates a Redis-backed tenant cache. Keys are namespaced
// with the given prefix, defaulting to "tenant:".
func NewRedisCache(client redis.UniversalClient, keyPrefix string) Cache {
	if keyPrefix == "" {
		keyPrefix = "tenant:"
	}
	return &redisCache{client: client, keyPrefix: keyPrefix}
}

func (c *redisCache) Get(ctx context.Context, key string) (*Tenant, bool) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}

	var t Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		// Stale or corrupt entry; drop it and fall through to the provider.
		c.Delete(ctx, key)
		return nil, false
	}
	return &t, true
}

func (c *redisCache) Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration) {
	if tenant == nil || ttl <= 0 {
		return
	}
	data, err := json.Marshal(tenant)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	_ = c.client.Del(ctx, c.keyPrefix+key).Err()
}

func (c *redisCache) Close() error {
	// The client is owned by the caller; nothing to release here.
	return nil
}

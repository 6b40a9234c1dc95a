package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces tenant records in a shared Redis database.
const DefaultRedisKeyPrefix = "servicebond:tenant:"

// redisCache shares resolved tenants between processes.
type redisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache creates a Redis-backed tenant cache.
// An empty prefix falls back to DefaultRedisKeyPrefix.
func NewRedisCache(client redis.UniversalClient, prefix string) Cache {
	if client == nil {
		panic("tenant: redis client cannot be nil")
	}
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &redisCache{client: client, prefix: prefix}
}

func (c *redisCache) key(id int64) string {
	return c.prefix + strconv.FormatInt(id, 10)
}

// Get treats every Redis failure as a miss; the provider is the source of truth.
func (c *redisCache) Get(ctx context.Context, id int64) (*Tenant, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var t Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, false
	}
	return &t, true
}

func (c *redisCache) Set(ctx context.Context, id int64, t *Tenant, ttl time.Duration) error {
	if t == nil {
		return errors.New("tenant: cannot cache nil tenant")
	}
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(id), data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, id int64) {
	_ = c.client.Del(ctx, c.key(id)).Err()
}

// Close is a no-op: the client is owned by the caller.
func (c *redisCache) Close() error {
	return nil
}

package tenant_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servicebond/pkg/tenant"
)

// Requires a reachable server: REDIS_URL=redis://localhost:6379/0 go test ./pkg/tenant
func TestRedisCache(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	cache := tenant.NewRedisCache(client, "test:"+uuid.NewString()+":")

	_, ok := cache.Get(ctx, 1)
	assert.False(t, ok)

	shop := &tenant.Tenant{ID: 1, Name: "acme", Title: "Acme"}
	require.NoError(t, cache.Set(ctx, 1, shop, time.Minute))

	got, ok := cache.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, shop, got)

	cache.Delete(ctx, 1)
	_, ok = cache.Get(ctx, 1)
	assert.False(t, ok)

	assert.Error(t, cache.Set(ctx, 2, nil, time.Minute))
	assert.NoError(t, cache.Close())
}

func TestNewRedisCache_NilClient(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { tenant.NewRedisCache(nil, "") })
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/po-insights/backend-go/internal/config"
	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDashboardCacheDisabledIsNoop(t *testing.T) {
	c, err := NewDashboardCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.SetMetrics(ctx, &domain.DashboardMetrics{Revenue: 10}))

	metrics, ok, err := c.GetMetrics(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, metrics)
	assert.NoError(t, c.InvalidateAll(ctx))
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.CacheConfig{})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)

	opts, err = redisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisPassword: "pw", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = redisOptions(config.CacheConfig{RedisURL: "redis://:secret@redis.internal:6390/4"})
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6390", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 4, opts.DB)

	_, err = redisOptions(config.CacheConfig{RedisURL: "http://nope"})
	assert.Error(t, err)
}

func TestDashboardMetricsKey(t *testing.T) {
	assert.Equal(t, "dashboard:metrics:default", dashboardMetricsKey())
}

func TestNewRedisDashboardCacheDefaultsTTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
	t.Cleanup(func() { _ = client.Close() })

	c, ok := NewRedisDashboardCache(client, 0).(*redisDashboardCache)
	require.True(t, ok)
	assert.Equal(t, time.Minute, c.ttl)

	c, ok = NewRedisDashboardCache(client, 30*time.Second).(*redisDashboardCache)
	require.True(t, ok)
	assert.Equal(t, 30*time.Second, c.ttl)
}

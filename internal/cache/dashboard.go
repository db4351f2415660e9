package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/andresuchdata/po-insights/backend-go/internal/config"
	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	dashboardMetricsKeyPrefix = "dashboard:metrics"
	scanBatchSize             = 100
	defaultDashboardTTL       = time.Minute
	redisPingTimeout          = 5 * time.Second
)

// DashboardCache stores rendered KPI payloads for the HTTP layer.
type DashboardCache interface {
	GetMetrics(ctx context.Context) (*domain.DashboardMetrics, bool, error)
	SetMetrics(ctx context.Context, metrics *domain.DashboardMetrics) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// NewDashboardCache connects to redis when caching is enabled and returns a
// noop cache otherwise. The connection is verified with a PING.
func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	ttl := time.Duration(cfg.DashboardTTLSeconds) * time.Second
	log.Info().Str("addr", opts.Addr).Dur("ttl", ttl).Msg("dashboard cache connected")

	return NewRedisDashboardCache(client, ttl), nil
}

// NewRedisDashboardCache wraps an existing client. A non-positive ttl means
// one minute.
func NewRedisDashboardCache(client *redis.Client, ttl time.Duration) DashboardCache {
	if ttl <= 0 {
		ttl = defaultDashboardTTL
	}
	return &redisDashboardCache{client: client, ttl: ttl}
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

// redisOptions prefers REDIS_URL and otherwise builds the address from host
// and port, defaulting to a local server.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opts, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func (c *redisDashboardCache) GetMetrics(ctx context.Context) (*domain.DashboardMetrics, bool, error) {
	payload, err := c.client.Get(ctx, dashboardMetricsKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var metrics domain.DashboardMetrics
	if err := json.Unmarshal(payload, &metrics); err != nil {
		return nil, false, fmt.Errorf("decode dashboard metrics cache: %w", err)
	}

	return &metrics, true, nil
}

func (c *redisDashboardCache) SetMetrics(ctx context.Context, metrics *domain.DashboardMetrics) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode dashboard metrics cache: %w", err)
	}

	if err := c.client.Set(ctx, dashboardMetricsKey(), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// InvalidateAll deletes every dashboard payload key found by SCAN.
func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, dashboardMetricsKeyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan dashboard keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("delete dashboard keys: %w", err)
		}
	}

	log.Debug().Int("deleted", len(keys)).Msg("dashboard cache invalidated")
	return nil
}

func (n *noopDashboardCache) GetMetrics(ctx context.Context) (*domain.DashboardMetrics, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetMetrics(ctx context.Context, metrics *domain.DashboardMetrics) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func dashboardMetricsKey() string {
	return dashboardMetricsKeyPrefix + ":default"
}

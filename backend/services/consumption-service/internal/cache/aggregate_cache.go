package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dropzero/backend/libs/metrics"
)

// Aggregate keys.
const (
	KeyZoneMap = "zone-map"
	KeyAlerts  = "alerts"
	KeyStats   = "stats"
)

var allKeys = []string{KeyZoneMap, KeyAlerts, KeyStats}

// AggregateCache keeps system-wide aggregates in Redis between ingestions.
// A nil client disables caching: every lookup misses and writes are dropped.
type AggregateCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewAggregateCache returns redis-backed cache.
func NewAggregateCache(client *redis.Client, ttl time.Duration, m *metrics.Metrics) *AggregateCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AggregateCache{client: client, ttl: ttl, metrics: m}
}

func (c *AggregateCache) key(name string) string {
	return fmt.Sprintf("consumption:aggregate:%s", name)
}

// Get decodes the cached value of name into dst and reports whether it was
// present.
func (c *AggregateCache) Get(ctx context.Context, name string, dst any) (bool, error) {
	if c.client == nil {
		c.observe(name, "miss")
		return false, nil
	}

	raw, err := c.client.Get(ctx, c.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.observe(name, "miss")
			return false, nil
		}
		c.observe(name, "error")
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.observe(name, "error")
		return false, fmt.Errorf("decode cached %s: %w", name, err)
	}
	c.observe(name, "hit")
	return true, nil
}

// Set caches value under name.
func (c *AggregateCache) Set(ctx context.Context, name string, value any) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(name), data, c.ttl).Err()
}

// Invalidate drops every cached aggregate.
func (c *AggregateCache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	keys := make([]string, 0, len(allKeys))
	for _, name := range allKeys {
		keys = append(keys, c.key(name))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *AggregateCache) observe(name, result string) {
	if c.metrics != nil {
		c.metrics.CacheLookups.WithLabelValues(name, result).Inc()
	}
}

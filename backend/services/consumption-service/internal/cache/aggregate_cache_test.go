package cache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropzero/backend/libs/metrics"
)

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	m := metrics.NewMetrics(nil)
	c := NewAggregateCache(nil, time.Minute, m)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, KeyStats, map[string]int{"totalMeters": 3}))

	var out map[string]int
	ok, err := c.Get(ctx, KeyStats, &out)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, out)
	assert.NoError(t, c.Invalidate(ctx))

	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheLookups.WithLabelValues(KeyStats, "miss")), 1e-9)
}

func TestKeysAreNamespaced(t *testing.T) {
	c := NewAggregateCache(nil, 0, nil)
	assert.Equal(t, "consumption:aggregate:zone-map", c.key(KeyZoneMap))
	assert.Equal(t, 5*time.Minute, c.ttl)
}

package service

import (
	"context"

	"go.uber.org/zap"
)

// AggregateCache stores system-wide aggregates between ingestions.
type AggregateCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}

// cached serves key from c when present and otherwise loads and stores it.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, c AggregateCache, logger *zap.Logger, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	var hit T
	ok, err := c.Get(ctx, key, &hit)
	if err != nil {
		logger.Warn("aggregate cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return hit, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, key, value); err != nil {
		logger.Warn("aggregate cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

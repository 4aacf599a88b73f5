package cache

import (
	"context"
	"fmt"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/erp/fulfillment-sync/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StoreFactory picks the delivery store implementation from configuration
type StoreFactory struct {
	redis         config.RedisConfig
	logger        *zap.Logger
	allowFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMemoryFallback controls whether an unreachable Redis falls back to the
// in-memory store. Enabled by default.
func WithMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redis:         cfg,
		logger:        zap.NewNop(),
		allowFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns a Redis store when Redis is enabled and reachable,
// otherwise the in-memory store
func (f *StoreFactory) CreateStore(ctx context.Context) (fulfillment.IdempotencyStore, error) {
	if !f.redis.Enabled {
		f.logger.Info("Redis disabled, using in-memory delivery store")
		return NewMemoryDeliveryStore(), nil
	}

	store, err := NewRedisDeliveryStore(ctx, RedisOptions{
		Addr:      f.redis.Addr(),
		Password:  f.redis.Password,
		DB:        f.redis.DB,
		KeyPrefix: f.redis.KeyPrefix,
	})
	if err == nil {
		f.logger.Info("Using Redis delivery store", zap.String("addr", f.redis.Addr()))
		return store, nil
	}

	if !f.allowFallback {
		return nil, fmt.Errorf("redis delivery store unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory delivery store; "+
		"duplicate deliveries across replicas will not be detected",
		zap.Error(err),
	)
	return NewMemoryDeliveryStore(), nil
}

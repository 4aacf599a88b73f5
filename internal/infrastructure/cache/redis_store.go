package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces delivery keys in Redis
const DefaultKeyPrefix = "fsync:webhook:delivery:"

// RedisDeliveryStore remembers webhook deliveries in Redis so that every
// replica sees the same state
type RedisDeliveryStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisOptions holds Redis connection settings
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisDeliveryStore connects to Redis and checks the connection
func NewRedisDeliveryStore(ctx context.Context, opts RedisOptions) (*RedisDeliveryStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	return NewRedisDeliveryStoreWithClient(client, opts.KeyPrefix), nil
}

// NewRedisDeliveryStoreWithClient wraps an existing client
func NewRedisDeliveryStoreWithClient(client redis.UniversalClient, keyPrefix string) *RedisDeliveryStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisDeliveryStore{client: client, keyPrefix: keyPrefix}
}

// MarkProcessed sets the key with SETNX so concurrent replicas race safely
func (s *RedisDeliveryStore) MarkProcessed(ctx context.Context, deliveryKey string, ttl time.Duration) (bool, error) {
	created, err := s.client.SetNX(ctx, s.keyPrefix+deliveryKey, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark delivery %s: %w", deliveryKey, err)
	}
	return created, nil
}

// IsProcessed checks whether the delivery key exists
func (s *RedisDeliveryStore) IsProcessed(ctx context.Context, deliveryKey string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+deliveryKey).Result()
	if err != nil {
		return false, fmt.Errorf("check delivery %s: %w", deliveryKey, err)
	}
	return n > 0, nil
}

// Close closes the Redis client
func (s *RedisDeliveryStore) Close() error {
	return s.client.Close()
}

var _ fulfillment.IdempotencyStore = (*RedisDeliveryStore)(nil)

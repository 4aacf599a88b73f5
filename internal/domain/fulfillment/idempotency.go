package fulfillment

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed webhook deliveries so that a
// redelivered payload is acknowledged without being processed twice
type IdempotencyStore interface {
	// MarkProcessed marks a delivery as processed with a TTL
	// Returns true if the delivery was newly marked, false if it was already processed
	MarkProcessed(ctx context.Context, deliveryKey string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a delivery has already been processed
	IsProcessed(ctx context.Context, deliveryKey string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for delivery de-duplication
type IdempotencyConfig struct {
	// TTL is how long a delivery key is remembered
	// Default: 24 hours
	TTL time.Duration

	// Enabled determines whether de-duplication is enabled
	// Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}

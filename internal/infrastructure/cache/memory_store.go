package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
)

// DefaultSweepInterval is how often expired deliveries are purged
const DefaultSweepInterval = 5 * time.Minute

// MemoryDeliveryStore remembers webhook deliveries in process memory.
// State is not shared between replicas.
type MemoryDeliveryStore struct {
	mu        sync.Mutex
	expiry    map[string]time.Time
	now       func() time.Time
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// MemoryStoreOption configures a MemoryDeliveryStore
type MemoryStoreOption func(*memoryStoreOptions)

type memoryStoreOptions struct {
	sweepInterval time.Duration
	now           func() time.Time
}

// WithSweepInterval overrides DefaultSweepInterval
func WithSweepInterval(interval time.Duration) MemoryStoreOption {
	return func(o *memoryStoreOptions) {
		if interval > 0 {
			o.sweepInterval = interval
		}
	}
}

// WithNow replaces the clock
func WithNow(now func() time.Time) MemoryStoreOption {
	return func(o *memoryStoreOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewMemoryDeliveryStore creates the store and starts its sweeper
func NewMemoryDeliveryStore(opts ...MemoryStoreOption) *MemoryDeliveryStore {
	o := memoryStoreOptions{sweepInterval: DefaultSweepInterval, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	s := &MemoryDeliveryStore{
		expiry: make(map[string]time.Time),
		now:    o.now,
		stop:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop(o.sweepInterval)
	return s
}

// MarkProcessed records the delivery key unless a live entry already exists
func (s *MemoryDeliveryStore) MarkProcessed(_ context.Context, deliveryKey string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiresAt, ok := s.expiry[deliveryKey]; ok && now.Before(expiresAt) {
		return false, nil
	}
	s.expiry[deliveryKey] = now.Add(ttl)
	return true, nil
}

// IsProcessed reports whether a live entry exists for the delivery key
func (s *MemoryDeliveryStore) IsProcessed(_ context.Context, deliveryKey string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.expiry[deliveryKey]
	return ok && s.now().Before(expiresAt), nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *MemoryDeliveryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
	return nil
}

// Len returns the number of tracked deliveries, expired ones included
func (s *MemoryDeliveryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiry)
}

func (s *MemoryDeliveryStore) sweepLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryDeliveryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, expiresAt := range s.expiry {
		if !now.Before(expiresAt) {
			delete(s.expiry, key)
		}
	}
}

var _ fulfillment.IdempotencyStore = (*MemoryDeliveryStore)(nil)

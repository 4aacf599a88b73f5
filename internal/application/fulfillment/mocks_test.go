package fulfillment

import (
	"context"
	"iter"
	"sync"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/stretchr/testify/mock"
)

// MockOrderGateway is a mock implementation of fulfillment.OrderGateway
type MockOrderGateway struct {
	mock.Mock
}

func (m *MockOrderGateway) ListOrders(ctx context.Context, window fulfillment.DateRange) fulfillment.OrderSeq {
	args := m.Called(ctx, window)
	return args.Get(0).(fulfillment.OrderSeq)
}

func (m *MockOrderGateway) GetOrder(ctx context.Context, sellerOrderID string) fulfillment.Result[fulfillment.Order] {
	args := m.Called(ctx, sellerOrderID)
	return args.Get(0).(fulfillment.Result[fulfillment.Order])
}

func (m *MockOrderGateway) CreateOrder(ctx context.Context, req fulfillment.OrderCreation) fulfillment.Result[fulfillment.Order] {
	args := m.Called(ctx, req)
	return args.Get(0).(fulfillment.Result[fulfillment.Order])
}

// MockCatalogOrderGateway is a mock implementation of fulfillment.CatalogOrderGateway
type MockCatalogOrderGateway struct {
	mock.Mock
}

func (m *MockCatalogOrderGateway) UpsertOrders(ctx context.Context, orders []fulfillment.CatalogOrder) error {
	args := m.Called(ctx, orders)
	if fn, ok := args.Get(0).(func(context.Context, []fulfillment.CatalogOrder) error); ok {
		return fn(ctx, orders)
	}
	return args.Error(0)
}

// MockProductGateway is a mock implementation of fulfillment.ProductGateway
type MockProductGateway struct {
	mock.Mock
}

func (m *MockProductGateway) ListProducts(ctx context.Context) iter.Seq2[fulfillment.Product, error] {
	args := m.Called(ctx)
	return args.Get(0).(iter.Seq2[fulfillment.Product, error])
}

func (m *MockProductGateway) ListInventories(ctx context.Context) iter.Seq2[fulfillment.Inventory, error] {
	args := m.Called(ctx)
	return args.Get(0).(iter.Seq2[fulfillment.Inventory, error])
}

// MockCatalogVariantGateway is a mock implementation of fulfillment.CatalogVariantGateway
type MockCatalogVariantGateway struct {
	mock.Mock
}

func (m *MockCatalogVariantGateway) UpdateVariants(ctx context.Context, variants []fulfillment.VariantStock) error {
	args := m.Called(ctx, variants)
	return args.Error(0)
}

// memoryRecorder keeps every record in memory
type memoryRecorder struct {
	mu      sync.Mutex
	records []fulfillment.SyncRecord
}

func (r *memoryRecorder) Record(_ context.Context, record *fulfillment.SyncRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
}

func (r *memoryRecorder) outcomes() []fulfillment.SyncOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	outcomes := make([]fulfillment.SyncOutcome, len(r.records))
	for i, rec := range r.records {
		outcomes[i] = rec.Outcome
	}
	return outcomes
}

// Ensure mocks implement interfaces
var (
	_ fulfillment.OrderGateway          = (*MockOrderGateway)(nil)
	_ fulfillment.CatalogOrderGateway   = (*MockCatalogOrderGateway)(nil)
	_ fulfillment.ProductGateway        = (*MockProductGateway)(nil)
	_ fulfillment.CatalogVariantGateway = (*MockCatalogVariantGateway)(nil)
	_ SyncRecorder                      = (*memoryRecorder)(nil)
)

// seqOf returns a sequence over the given items
func seqOf[T any](items ...T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

// failingSeq returns a sequence that yields the items then the error
func failingSeq[T any](err error, items ...T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
		var zero T
		yield(zero, err)
	}
}

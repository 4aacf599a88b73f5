package handler

import (
	"context"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/erp/fulfillment-sync/internal/infrastructure/persistence"
	"github.com/erp/fulfillment-sync/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderService is a mock implementation of OrderService and OrderStatusUpdater
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) UpdateOrCreateOrder(ctx context.Context, event fulfillment.CatalogOrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOrderService) ImportOrder(ctx context.Context, sellerOrderID string) error {
	args := m.Called(ctx, sellerOrderID)
	return args.Error(0)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, update fulfillment.StatusUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

// MockInventoryService is a mock implementation of StockApplier and ProductCatalog
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) ApplyStockSnapshot(ctx context.Context, snapshot fulfillment.StockSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockInventoryService) SKUMappings(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockInventoryService) ProductInventories(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockImportScheduler is a mock implementation of ImportRunner, JobHistory and ImportStatus
type MockImportScheduler struct {
	mock.Mock
}

func (m *MockImportScheduler) Run(ctx context.Context, trigger scheduler.ImportTrigger) (scheduler.ImportJob, error) {
	args := m.Called(ctx, trigger)
	return args.Get(0).(scheduler.ImportJob), args.Error(1)
}

func (m *MockImportScheduler) History(limit int) []scheduler.ImportJob {
	args := m.Called(limit)
	return args.Get(0).([]scheduler.ImportJob)
}

func (m *MockImportScheduler) Job(id uuid.UUID) (scheduler.ImportJob, error) {
	args := m.Called(id)
	return args.Get(0).(scheduler.ImportJob), args.Error(1)
}

func (m *MockImportScheduler) InProgress() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockSyncRecordRepository is a mock implementation of fulfillment.SyncRecordRepository
type MockSyncRecordRepository struct {
	mock.Mock
}

func (m *MockSyncRecordRepository) Save(ctx context.Context, record *fulfillment.SyncRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSyncRecordRepository) FindRecent(ctx context.Context, filter fulfillment.SyncRecordFilter) ([]fulfillment.SyncRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.SyncRecord), args.Error(1)
}

// MockDatabase is a mock implementation of DatabaseChecker
type MockDatabase struct {
	mock.Mock
}

func (m *MockDatabase) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDatabase) Stats() (persistence.ConnectionStats, error) {
	args := m.Called()
	return args.Get(0).(persistence.ConnectionStats), args.Error(1)
}

// Ensure mocks implement interfaces
var (
	_ OrderService                     = (*MockOrderService)(nil)
	_ OrderStatusUpdater               = (*MockOrderService)(nil)
	_ StockApplier                     = (*MockInventoryService)(nil)
	_ ProductCatalog                   = (*MockInventoryService)(nil)
	_ ImportRunner                     = (*MockImportScheduler)(nil)
	_ JobHistory                       = (*MockImportScheduler)(nil)
	_ ImportStatus                     = (*MockImportScheduler)(nil)
	_ fulfillment.SyncRecordRepository = (*MockSyncRecordRepository)(nil)
	_ DatabaseChecker                  = (*MockDatabase)(nil)
)

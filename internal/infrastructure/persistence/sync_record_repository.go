package persistence

import (
	"context"
	"fmt"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/erp/fulfillment-sync/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// Limits applied to FindRecent
const (
	DefaultSyncRecordLimit = 50
	MaxSyncRecordLimit     = 500
)

// GormSyncRecordRepository implements fulfillment.SyncRecordRepository using GORM
type GormSyncRecordRepository struct {
	db *gorm.DB
}

// NewGormSyncRecordRepository creates a new GormSyncRecordRepository
func NewGormSyncRecordRepository(db *gorm.DB) *GormSyncRecordRepository {
	return &GormSyncRecordRepository{db: db}
}

// Save appends a record
func (r *GormSyncRecordRepository) Save(ctx context.Context, record *fulfillment.SyncRecord) error {
	model := models.OrderSyncRecordModelFromDomain(record)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("save sync record: %w", err)
	}
	return nil
}

// FindRecent returns the newest records matching the filter, newest first
func (r *GormSyncRecordRepository) FindRecent(ctx context.Context, filter fulfillment.SyncRecordFilter) ([]fulfillment.SyncRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderSyncRecordModel{})

	if filter.Operation != "" {
		query = query.Where("operation = ?", string(filter.Operation))
	}
	if filter.Outcome != "" {
		query = query.Where("outcome = ?", string(filter.Outcome))
	}
	if filter.SellerOrderID != "" {
		query = query.Where("seller_order_id = ?", filter.SellerOrderID)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}

	var rows []models.OrderSyncRecordModel
	err := query.Order("created_at DESC").Limit(clampLimit(filter.Limit)).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find sync records: %w", err)
	}

	records := make([]fulfillment.SyncRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultSyncRecordLimit
	case limit > MaxSyncRecordLimit:
		return MaxSyncRecordLimit
	default:
		return limit
	}
}

// Ensure GormSyncRecordRepository implements fulfillment.SyncRecordRepository
var _ fulfillment.SyncRecordRepository = (*GormSyncRecordRepository)(nil)

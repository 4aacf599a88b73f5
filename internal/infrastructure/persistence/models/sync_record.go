package models

import (
	"time"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/google/uuid"
)

// OrderSyncRecordModel is the persistence model of a sync audit log entry.
type OrderSyncRecordModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Operation     string    `gorm:"type:varchar(32);not null;index:idx_order_sync_records_operation_outcome"`
	Outcome       string    `gorm:"type:varchar(32);not null;index:idx_order_sync_records_operation_outcome"`
	OrderID       string    `gorm:"type:varchar(64);not null;default:''"`
	SellerOrderID string    `gorm:"type:varchar(64);not null;default:''"`
	ExternalID    string    `gorm:"type:varchar(64);not null;default:''"`
	BatchNumber   int       `gorm:"not null;default:0"`
	OrderCount    int       `gorm:"not null;default:0"`
	Message       string    `gorm:"type:text;not null;default:''"`
	CreatedAt     time.Time `gorm:"not null;index:idx_order_sync_records_created_at"`
}

// TableName returns the table name for GORM
func (OrderSyncRecordModel) TableName() string {
	return "order_sync_records"
}

// ToDomain converts the model to a domain sync record
func (m *OrderSyncRecordModel) ToDomain() fulfillment.SyncRecord {
	return fulfillment.SyncRecord{
		ID:            m.ID,
		Operation:     fulfillment.SyncOperation(m.Operation),
		Outcome:       fulfillment.SyncOutcome(m.Outcome),
		OrderID:       m.OrderID,
		SellerOrderID: m.SellerOrderID,
		ExternalID:    m.ExternalID,
		BatchNumber:   m.BatchNumber,
		OrderCount:    m.OrderCount,
		Message:       m.Message,
		CreatedAt:     m.CreatedAt,
	}
}

// OrderSyncRecordModelFromDomain creates a model from a domain sync record
func OrderSyncRecordModelFromDomain(r *fulfillment.SyncRecord) *OrderSyncRecordModel {
	return &OrderSyncRecordModel{
		ID:            r.ID,
		Operation:     string(r.Operation),
		Outcome:       string(r.Outcome),
		OrderID:       r.OrderID,
		SellerOrderID: r.SellerOrderID,
		ExternalID:    r.ExternalID,
		BatchNumber:   r.BatchNumber,
		OrderCount:    r.OrderCount,
		Message:       r.Message,
		CreatedAt:     r.CreatedAt,
	}
}

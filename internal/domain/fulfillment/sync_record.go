package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SyncOperation identifies the synchronizer entry point that produced a record
type SyncOperation string

const (
	SyncOperationCreateOrder  SyncOperation = "CREATE_ORDER"
	SyncOperationImportOrders SyncOperation = "IMPORT_ORDERS"
	SyncOperationImportOrder  SyncOperation = "IMPORT_ORDER"
	SyncOperationUpdateStatus SyncOperation = "UPDATE_STATUS"
	SyncOperationApplyStock   SyncOperation = "APPLY_STOCK"
)

// IsValid returns true if the operation is valid
func (o SyncOperation) IsValid() bool {
	switch o {
	case SyncOperationCreateOrder, SyncOperationImportOrders, SyncOperationImportOrder,
		SyncOperationUpdateStatus, SyncOperationApplyStock:
		return true
	default:
		return false
	}
}

// SyncOutcome is the decision or result recorded for an operation
type SyncOutcome string

const (
	SyncOutcomeCreated       SyncOutcome = "CREATED"
	SyncOutcomeSkipped       SyncOutcome = "SKIPPED"
	SyncOutcomeAlreadyExists SyncOutcome = "ALREADY_EXISTS"
	SyncOutcomeCreateFailed  SyncOutcome = "CREATE_FAILED"
	SyncOutcomeNotFound      SyncOutcome = "NOT_FOUND"
	SyncOutcomeSucceeded     SyncOutcome = "SUCCEEDED"
	SyncOutcomeFailed        SyncOutcome = "FAILED"
)

// IsValid returns true if the outcome is valid
func (o SyncOutcome) IsValid() bool {
	switch o {
	case SyncOutcomeCreated, SyncOutcomeSkipped, SyncOutcomeAlreadyExists,
		SyncOutcomeCreateFailed, SyncOutcomeNotFound, SyncOutcomeSucceeded, SyncOutcomeFailed:
		return true
	default:
		return false
	}
}

// SyncRecord is one entry of the synchronization audit log
type SyncRecord struct {
	ID            uuid.UUID
	Operation     SyncOperation
	Outcome       SyncOutcome
	OrderID       string
	SellerOrderID string
	ExternalID    string
	BatchNumber   int
	OrderCount    int
	Message       string
	CreatedAt     time.Time
}

// NewSyncRecord creates a record stamped with a fresh id and the current time
func NewSyncRecord(op SyncOperation, outcome SyncOutcome) *SyncRecord {
	return &SyncRecord{
		ID:        uuid.New(),
		Operation: op,
		Outcome:   outcome,
		CreatedAt: time.Now().UTC(),
	}
}

// SyncRecordFilter narrows a sync record query
type SyncRecordFilter struct {
	Operation     SyncOperation
	Outcome       SyncOutcome
	SellerOrderID string
	Since         *time.Time
	Limit         int
}

// SyncRecordRepository persists the synchronization audit log
type SyncRecordRepository interface {
	// Save appends a record
	Save(ctx context.Context, record *SyncRecord) error

	// FindRecent returns the newest records matching the filter
	FindRecent(ctx context.Context, filter SyncRecordFilter) ([]SyncRecord, error)
}

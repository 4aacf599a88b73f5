package fulfillment

import (
	"context"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"go.uber.org/zap"
)

// SyncRecorder appends synchronizer decisions to the audit log.
// Implementations must not fail the caller: recording errors are logged only.
type SyncRecorder interface {
	Record(ctx context.Context, record *fulfillment.SyncRecord)
}

// RepositoryRecorder writes sync records through a SyncRecordRepository
type RepositoryRecorder struct {
	repo   fulfillment.SyncRecordRepository
	logger *zap.Logger
}

// NewRepositoryRecorder creates a recorder backed by the given repository
func NewRepositoryRecorder(repo fulfillment.SyncRecordRepository, logger *zap.Logger) *RepositoryRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepositoryRecorder{repo: repo, logger: logger}
}

// Record saves the record, logging instead of returning any failure
func (r *RepositoryRecorder) Record(ctx context.Context, record *fulfillment.SyncRecord) {
	if err := r.repo.Save(ctx, record); err != nil {
		r.logger.Warn("Failed to record sync decision",
			zap.String("operation", string(record.Operation)),
			zap.String("outcome", string(record.Outcome)),
			zap.String("order_id", record.OrderID),
			zap.Error(err),
		)
	}
}

// NopRecorder discards every record
type NopRecorder struct{}

// Record does nothing
func (NopRecorder) Record(context.Context, *fulfillment.SyncRecord) {}

var (
	_ SyncRecorder = (*RepositoryRecorder)(nil)
	_ SyncRecorder = NopRecorder{}
)

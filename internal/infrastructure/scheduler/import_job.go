package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/google/uuid"
)

// ImportTrigger names what started an import job
type ImportTrigger string

const (
	TriggerScheduled ImportTrigger = "SCHEDULED"
	TriggerStartup   ImportTrigger = "STARTUP"
	TriggerManual    ImportTrigger = "MANUAL"
)

// ImportJobStatus represents the status of an import job
type ImportJobStatus string

const (
	ImportJobStatusRunning   ImportJobStatus = "RUNNING"
	ImportJobStatusSuccess   ImportJobStatus = "SUCCESS"
	ImportJobStatusPartial   ImportJobStatus = "PARTIAL"
	ImportJobStatusFailed    ImportJobStatus = "FAILED"
	ImportJobStatusCancelled ImportJobStatus = "CANCELLED"
)

// ImportJob is one run of the bulk order import
type ImportJob struct {
	ID          uuid.UUID                `json:"id"`
	Trigger     ImportTrigger            `json:"trigger"`
	Status      ImportJobStatus          `json:"status"`
	StartedAt   time.Time                `json:"started_at"`
	CompletedAt *time.Time               `json:"completed_at,omitempty"`
	Report      *fulfillment.BatchReport `json:"report,omitempty"`
	Error       string                   `json:"error,omitempty"`
}

func newImportJob(trigger ImportTrigger, now time.Time) *ImportJob {
	return &ImportJob{
		ID:        uuid.New(),
		Trigger:   trigger,
		Status:    ImportJobStatusRunning,
		StartedAt: now,
	}
}

// Duration returns how long the job ran, or zero while it is still running
func (j *ImportJob) Duration() time.Duration {
	if j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(j.StartedAt)
}

// complete stores the report. A failed listing fails the job and failed
// batches make it partial.
func (j *ImportJob) complete(report fulfillment.BatchReport, now time.Time) {
	j.CompletedAt = &now
	j.Report = &report

	switch {
	case report.ListFailed:
		j.Status = ImportJobStatusFailed
		j.Error = "order listing failed"
	case report.FailedBatches > 0:
		j.Status = ImportJobStatusPartial
		j.Error = fmt.Sprintf("%d of %d batches failed", report.FailedBatches, report.Batches)
	default:
		j.Status = ImportJobStatusSuccess
	}
}

// fail records an aborted run
func (j *ImportJob) fail(err error, timeout time.Duration, now time.Time) {
	j.CompletedAt = &now

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		j.Status = ImportJobStatusFailed
		j.Error = fmt.Sprintf("%v after %s", ErrImportTimeout, timeout)
	case errors.Is(err, context.Canceled):
		j.Status = ImportJobStatusCancelled
		j.Error = err.Error()
	default:
		j.Status = ImportJobStatusFailed
		j.Error = err.Error()
	}
}

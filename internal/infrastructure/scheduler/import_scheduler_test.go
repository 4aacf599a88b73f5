package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

// importerFunc adapts a function to OrderImporter
type importerFunc func(ctx context.Context) (fulfillment.BatchReport, error)

func (f importerFunc) ImportAllOrders(ctx context.Context) (fulfillment.BatchReport, error) {
	return f(ctx)
}

func reportOf(batches, failed int) fulfillment.BatchReport {
	return fulfillment.BatchReport{
		Batches:        batches,
		FailedBatches:  failed,
		OrdersImported: (batches - failed) * 10,
	}
}

func testConfig() ImportSchedulerConfig {
	cfg := DefaultImportSchedulerConfig()
	cfg.Enabled = false
	cfg.JobTimeout = time.Second
	cfg.HistorySize = 3
	return cfg
}

func newTestScheduler(t *testing.T, cfg ImportSchedulerConfig, importer OrderImporter) *ImportScheduler {
	t.Helper()
	s, err := NewImportScheduler(cfg, importer, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return s
}

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestImportSchedulerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ImportSchedulerConfig)
		wantErr bool
	}{
		{"defaults", func(*ImportSchedulerConfig) {}, false},
		{"interval below a minute", func(c *ImportSchedulerConfig) { c.Interval = 30 * time.Second }, true},
		{"short interval while disabled", func(c *ImportSchedulerConfig) { c.Enabled = false; c.Interval = 0 }, false},
		{"zero timeout", func(c *ImportSchedulerConfig) { c.JobTimeout = 0 }, true},
		{"zero history", func(c *ImportSchedulerConfig) { c.HistorySize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultImportSchedulerConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Run Tests
// ---------------------------------------------------------------------------

func TestImportScheduler_RunStatuses(t *testing.T) {
	tests := []struct {
		name       string
		importer   importerFunc
		wantStatus ImportJobStatus
		wantError  string
	}{
		{
			name:       "clean run",
			importer:   func(context.Context) (fulfillment.BatchReport, error) { return reportOf(3, 0), nil },
			wantStatus: ImportJobStatusSuccess,
		},
		{
			name:       "failed batches",
			importer:   func(context.Context) (fulfillment.BatchReport, error) { return reportOf(3, 1), nil },
			wantStatus: ImportJobStatusPartial,
			wantError:  "1 of 3 batches failed",
		},
		{
			name: "listing failure",
			importer: func(context.Context) (fulfillment.BatchReport, error) {
				return fulfillment.BatchReport{ListFailed: true}, nil
			},
			wantStatus: ImportJobStatusFailed,
			wantError:  "order listing failed",
		},
		{
			name: "timeout",
			importer: func(ctx context.Context) (fulfillment.BatchReport, error) {
				<-ctx.Done()
				return fulfillment.BatchReport{}, ctx.Err()
			},
			wantStatus: ImportJobStatusFailed,
			wantError:  ErrImportTimeout.Error(),
		},
		{
			name: "other error",
			importer: func(context.Context) (fulfillment.BatchReport, error) {
				return fulfillment.BatchReport{}, errors.New("boom")
			},
			wantStatus: ImportJobStatusFailed,
			wantError:  "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.JobTimeout = 20 * time.Millisecond
			s := newTestScheduler(t, cfg, tt.importer)

			job, err := s.Run(context.Background(), TriggerManual)

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, job.ID)
			assert.Equal(t, TriggerManual, job.Trigger)
			assert.Equal(t, tt.wantStatus, job.Status)
			assert.Contains(t, job.Error, tt.wantError)
			require.NotNil(t, job.CompletedAt)
			require.NotNil(t, job.Report)
			assert.False(t, s.InProgress())
		})
	}
}

func TestImportScheduler_RunCancelled(t *testing.T) {
	s := newTestScheduler(t, testConfig(), importerFunc(func(ctx context.Context) (fulfillment.BatchReport, error) {
		<-ctx.Done()
		return fulfillment.BatchReport{}, ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job, err := s.Run(ctx, TriggerScheduled)

	require.NoError(t, err)
	assert.Equal(t, ImportJobStatusCancelled, job.Status)
}

func TestImportScheduler_OverlapGuard(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var calls atomic.Int32

	s := newTestScheduler(t, testConfig(), importerFunc(func(ctx context.Context) (fulfillment.BatchReport, error) {
		calls.Add(1)
		close(entered)
		<-release
		return reportOf(1, 0), nil
	}))

	done := make(chan ImportJob)
	go func() {
		job, _ := s.Run(context.Background(), TriggerScheduled)
		done <- job
	}()
	<-entered

	assert.True(t, s.InProgress())
	_, err := s.Run(context.Background(), TriggerManual)
	assert.ErrorIs(t, err, ErrImportInProgress)

	running := s.History(0)
	require.Len(t, running, 1)
	assert.Equal(t, ImportJobStatusRunning, running[0].Status)

	close(release)
	finished := <-done
	assert.Equal(t, ImportJobStatusSuccess, finished.Status)
	assert.Equal(t, int32(1), calls.Load())
}

// ---------------------------------------------------------------------------
// History Tests
// ---------------------------------------------------------------------------

func TestImportScheduler_HistoryIsBoundedNewestFirst(t *testing.T) {
	s := newTestScheduler(t, testConfig(), importerFunc(func(context.Context) (fulfillment.BatchReport, error) {
		return reportOf(1, 0), nil
	}))

	var ids []uuid.UUID
	for range 5 {
		job, err := s.Run(context.Background(), TriggerManual)
		require.NoError(t, err)
		ids = append(ids, job.ID)
	}

	history := s.History(0)
	require.Len(t, history, 3)
	assert.Equal(t, []uuid.UUID{ids[4], ids[3], ids[2]}, []uuid.UUID{history[0].ID, history[1].ID, history[2].ID})
	assert.Len(t, s.History(2), 2)

	job, err := s.Job(ids[3])
	require.NoError(t, err)
	assert.Equal(t, ids[3], job.ID)

	_, err = s.Job(ids[0])
	assert.ErrorIs(t, err, ErrJobNotFound)
}

// ---------------------------------------------------------------------------
// Loop Tests
// ---------------------------------------------------------------------------

func TestImportScheduler_RunOnStart(t *testing.T) {
	var calls atomic.Int32
	cfg := testConfig()
	cfg.Enabled = true
	cfg.Interval = time.Hour
	cfg.RunOnStart = true

	s := newTestScheduler(t, cfg, importerFunc(func(context.Context) (fulfillment.BatchReport, error) {
		calls.Add(1)
		return reportOf(1, 0), nil
	}))

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool {
		history := s.History(0)
		return len(history) == 1 && history[0].Status == ImportJobStatusSuccess
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, TriggerStartup, s.History(1)[0].Trigger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
	assert.Equal(t, int32(1), calls.Load())
}

func TestImportScheduler_DisabledDoesNotStartLoop(t *testing.T) {
	var calls atomic.Int32
	cfg := testConfig()
	cfg.RunOnStart = true

	s := newTestScheduler(t, cfg, importerFunc(func(context.Context) (fulfillment.BatchReport, error) {
		calls.Add(1)
		return reportOf(1, 0), nil
	}))

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, int32(0), calls.Load())
	assert.Empty(t, s.History(0))
}

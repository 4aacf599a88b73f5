package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/erp/fulfillment-sync/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderImporter runs the bulk import over the default window
type OrderImporter interface {
	ImportAllOrders(ctx context.Context) (fulfillment.BatchReport, error)
}

// ---------------------------------------------------------------------------
// ImportSchedulerConfig
// ---------------------------------------------------------------------------

// ImportSchedulerConfig holds configuration for the periodic import
type ImportSchedulerConfig struct {
	// Enabled starts the ticker loop. Manual runs work either way.
	Enabled bool
	// Interval between scheduled runs
	Interval time.Duration
	// RunOnStart triggers a run as soon as the loop starts
	RunOnStart bool
	// JobTimeout bounds a single run
	JobTimeout time.Duration
	// HistorySize is the number of finished jobs kept in memory
	HistorySize int
}

// DefaultImportSchedulerConfig returns default configuration
func DefaultImportSchedulerConfig() ImportSchedulerConfig {
	return ImportSchedulerConfig{
		Enabled:     true,
		Interval:    24 * time.Hour,
		RunOnStart:  true,
		JobTimeout:  30 * time.Minute,
		HistorySize: 50,
	}
}

// Validate validates the configuration
func (c *ImportSchedulerConfig) Validate() error {
	if c.Enabled && c.Interval < time.Minute {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	if c.HistorySize <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ---------------------------------------------------------------------------
// ImportScheduler
// ---------------------------------------------------------------------------

// ImportScheduler triggers the bulk order import on a fixed interval and on
// demand. At most one import runs at a time.
type ImportScheduler struct {
	config   ImportSchedulerConfig
	importer OrderImporter
	logger   *zap.Logger
	now      func() time.Time

	inProgress atomic.Bool

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// newest first, bounded by config.HistorySize
	historyMu sync.RWMutex
	history   []*ImportJob
}

// ImportSchedulerOption configures an ImportScheduler
type ImportSchedulerOption func(*ImportScheduler)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ImportSchedulerOption {
	return func(s *ImportScheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) ImportSchedulerOption {
	return func(s *ImportScheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// NewImportScheduler creates a new import scheduler
func NewImportScheduler(config ImportSchedulerConfig, importer OrderImporter, opts ...ImportSchedulerOption) (*ImportScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &ImportScheduler{
		config:   config,
		importer: importer,
		logger:   zap.NewNop(),
		now:      time.Now,
		history:  make([]*ImportJob, 0, config.HistorySize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start starts the ticker loop. It is a no-op when scheduling is disabled.
func (s *ImportScheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Scheduled order import disabled")
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Order import scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Bool("run_on_start", s.config.RunOnStart),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels a running import and waits for the loop to exit
func (s *ImportScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Order import scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Order import scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *ImportScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if s.config.RunOnStart {
		s.runAndLog(ctx, TriggerStartup)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runAndLog(ctx, TriggerScheduled)
		}
	}
}

func (s *ImportScheduler) runAndLog(ctx context.Context, trigger ImportTrigger) {
	if _, err := s.Run(ctx, trigger); err != nil {
		s.logger.Warn("Skipped order import", zap.String("trigger", string(trigger)), zap.Error(err))
	}
}

// Run executes one import synchronously and returns the finished job.
// It returns ErrImportInProgress without running when another import is active.
func (s *ImportScheduler) Run(ctx context.Context, trigger ImportTrigger) (ImportJob, error) {
	if !s.inProgress.CompareAndSwap(false, true) {
		return ImportJob{}, ErrImportInProgress
	}
	defer s.inProgress.Store(false)

	job := newImportJob(trigger, s.now())
	s.addToHistory(job)

	s.logger.Info("Order import started",
		zap.String("job_id", job.ID.String()),
		zap.String("trigger", string(trigger)),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	var (
		report fulfillment.BatchReport
		err    error
	)
	telemetry.WithProfilingLabels(jobCtx, map[string]string{
		telemetry.ProfilingLabelOperation: "import_orders",
		telemetry.ProfilingLabelTrigger:   string(trigger),
	}, func(ctx context.Context) {
		report, err = s.importer.ImportAllOrders(ctx)
	})

	s.historyMu.Lock()
	if err != nil {
		job.Report = &report
		job.fail(err, s.config.JobTimeout, s.now())
	} else {
		job.complete(report, s.now())
	}
	finished := *job
	s.historyMu.Unlock()

	fields := []zap.Field{
		zap.String("job_id", finished.ID.String()),
		zap.String("status", string(finished.Status)),
		zap.Duration("duration", finished.Duration()),
		zap.Int("orders_imported", report.OrdersImported),
		zap.Int("failed_batches", report.FailedBatches),
	}
	if finished.Status == ImportJobStatusSuccess {
		s.logger.Info("Order import completed", fields...)
	} else {
		s.logger.Warn("Order import did not complete cleanly", append(fields, zap.String("error", finished.Error))...)
	}
	return finished, nil
}

// InProgress reports whether an import is currently running
func (s *ImportScheduler) InProgress() bool {
	return s.inProgress.Load()
}

func (s *ImportScheduler) addToHistory(job *ImportJob) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append([]*ImportJob{job}, s.history...)
	if len(s.history) > s.config.HistorySize {
		s.history = s.history[:s.config.HistorySize]
	}
}

// History returns copies of the most recent jobs, newest first
func (s *ImportScheduler) History(limit int) []ImportJob {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}
	jobs := make([]ImportJob, limit)
	for i := range limit {
		jobs[i] = *s.history[i]
	}
	return jobs
}

// Job returns a copy of the job with the given id
func (s *ImportScheduler) Job(id uuid.UUID) (ImportJob, error) {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	for _, job := range s.history {
		if job.ID == id {
			return *job, nil
		}
	}
	return ImportJob{}, ErrJobNotFound
}

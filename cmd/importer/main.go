// Command importer runs one bulk import of the recent provider orders into
// the catalog and exits. It is meant for cron-style deployments where the
// server runs with the scheduler disabled.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	fulfillmentapp "github.com/erp/fulfillment-sync/internal/application/fulfillment"
	"github.com/erp/fulfillment-sync/internal/infrastructure/catalog"
	"github.com/erp/fulfillment-sync/internal/infrastructure/config"
	"github.com/erp/fulfillment-sync/internal/infrastructure/logger"
	"github.com/erp/fulfillment-sync/internal/infrastructure/persistence"
	"github.com/erp/fulfillment-sync/internal/infrastructure/provider"
	"github.com/erp/fulfillment-sync/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanups complete first
func run() int {
	var strict bool
	flag.BoolVar(&strict, "strict", false, "Exit with status 2 when a batch failed or the listing was cut short")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	syncMetrics, err := telemetry.NewSyncMetrics(telemetry.SyncMetricsConfig{
		Meter:  tel.Meter.Meter(cfg.Telemetry.ServiceName),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to initialize sync metrics", zap.Error(err))
	}

	var recorder fulfillmentapp.SyncRecorder = fulfillmentapp.NopRecorder{}
	if cfg.Database.Enabled && cfg.Sync.AuditEnabled {
		db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database,
			logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
		recorder = fulfillmentapp.NewRepositoryRecorder(persistence.NewGormSyncRecordRepository(db.DB), log)
	}

	providerClient, err := provider.NewClient(&provider.Config{
		BaseURL:           cfg.Provider.BaseURL,
		BearerToken:       cfg.Provider.BearerToken,
		Timeout:           cfg.Provider.Timeout,
		OrderPageSize:     cfg.Provider.OrderPageSize,
		InventoryPageSize: cfg.Provider.InventoryPageSize,
	}, provider.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create fulfillment provider client", zap.Error(err))
	}

	catalogClient, err := catalog.NewClient(&catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
		Timeout: cfg.Catalog.Timeout,
	}, catalog.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create catalog client", zap.Error(err))
	}

	orderSync, err := fulfillmentapp.NewOrderSynchronizer(
		provider.NewOrderGateway(providerClient),
		catalog.NewOrderGateway(catalogClient),
		cfg.Sync.Domain(),
		fulfillmentapp.WithOrderLogger(log),
		fulfillmentapp.WithOrderRecorder(recorder),
		fulfillmentapp.WithOrderMetrics(syncMetrics),
	)
	if err != nil {
		log.Fatal("Failed to create order synchronizer", zap.Error(err))
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.Scheduler.JobTimeout)
	defer cancel()

	start := time.Now()
	report, err := orderSync.ImportAllOrders(runCtx)
	if err != nil {
		log.Error("Order import aborted", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return 1
	}

	log.Info("Order import finished",
		zap.String("from", report.From),
		zap.String("to", report.To),
		zap.Int("listed", report.OrdersListed),
		zap.Int("skipped", report.OrdersSkipped),
		zap.Int("imported", report.OrdersImported),
		zap.Int("failed_batches", report.FailedBatches),
		zap.Bool("list_failed", report.ListFailed),
		zap.Duration("duration", time.Since(start)),
	)

	if strict && !report.Clean() {
		return 2
	}
	return 0
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fulfillmentapp "github.com/erp/fulfillment-sync/internal/application/fulfillment"
	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/erp/fulfillment-sync/internal/infrastructure/cache"
	"github.com/erp/fulfillment-sync/internal/infrastructure/catalog"
	"github.com/erp/fulfillment-sync/internal/infrastructure/config"
	"github.com/erp/fulfillment-sync/internal/infrastructure/logger"
	"github.com/erp/fulfillment-sync/internal/infrastructure/migration"
	"github.com/erp/fulfillment-sync/internal/infrastructure/persistence"
	"github.com/erp/fulfillment-sync/internal/infrastructure/provider"
	"github.com/erp/fulfillment-sync/internal/infrastructure/scheduler"
	"github.com/erp/fulfillment-sync/internal/infrastructure/telemetry"
	"github.com/erp/fulfillment-sync/internal/interfaces/http/handler"
	"github.com/erp/fulfillment-sync/internal/interfaces/http/router"
	"github.com/erp/fulfillment-sync/migrations"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Fulfillment Sync API
//	@version		1.0
//	@description	Synchronizes orders, shipping statuses and stock levels between the catalog and the fulfillment provider.

//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}

	// Bootstrap logger, used until the OTLP log bridge is available
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx := context.Background()

	// Initialize telemetry (traces, metrics, logs, profiling)
	tel, err := telemetry.Setup(rootCtx, cfg.Telemetry, version, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log, err := logger.New(logCfg, tel.Logs.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting fulfillment sync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	syncMetrics, err := telemetry.NewSyncMetrics(telemetry.SyncMetricsConfig{
		Meter:  tel.Meter.Meter(cfg.Telemetry.ServiceName),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to initialize sync metrics", zap.Error(err))
	}

	// Audit log database (optional)
	var (
		db       *persistence.Database
		records  fulfillment.SyncRecordRepository
		recorder fulfillmentapp.SyncRecorder = fulfillmentapp.NopRecorder{}
	)
	if cfg.Database.Enabled {
		db, err = openDatabase(cfg, log)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
		log.Info("Database connected successfully")

		if cfg.Sync.AuditEnabled {
			repo := persistence.NewGormSyncRecordRepository(db.DB)
			records = repo
			recorder = fulfillmentapp.NewRepositoryRecorder(repo, log)
		}
	} else {
		log.Info("Database disabled, sync audit log unavailable")
	}

	// Webhook delivery de-duplication
	var deliveries fulfillment.IdempotencyStore
	if cfg.Webhook.DedupEnabled {
		deliveries, err = cache.NewStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(rootCtx)
		if err != nil {
			log.Fatal("Failed to create delivery store", zap.Error(err))
		}
		defer func() {
			if err := deliveries.Close(); err != nil {
				log.Error("Error closing delivery store", zap.Error(err))
			}
		}()
	}

	// API clients
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

	// Synchronizers
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

	inventorySync, err := fulfillmentapp.NewInventorySynchronizer(
		provider.NewProductGateway(providerClient),
		catalog.NewVariantGateway(catalogClient),
		cfg.Sync.SKUPrefix,
		fulfillmentapp.WithInventoryLogger(log),
		fulfillmentapp.WithInventoryRecorder(recorder),
		fulfillmentapp.WithInventoryMetrics(syncMetrics),
	)
	if err != nil {
		log.Fatal("Failed to create inventory synchronizer", zap.Error(err))
	}

	// Periodic bulk import
	importScheduler, err := scheduler.NewImportScheduler(scheduler.ImportSchedulerConfig{
		Enabled:     cfg.Scheduler.Enabled,
		Interval:    cfg.Scheduler.Interval,
		RunOnStart:  cfg.Scheduler.RunOnStart,
		JobTimeout:  cfg.Scheduler.JobTimeout,
		HistorySize: cfg.Scheduler.HistorySize,
	}, orderSync, scheduler.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create import scheduler", zap.Error(err))
	}
	if err := importScheduler.Start(rootCtx); err != nil {
		log.Fatal("Failed to start import scheduler", zap.Error(err))
	}

	// HTTP handlers
	webhookOpts := []handler.WebhookHandlerOption{
		handler.WithWebhookLogger(log),
		handler.WithWebhookMetrics(syncMetrics),
	}
	if deliveries != nil {
		webhookOpts = append(webhookOpts, handler.WithDeliveryStore(deliveries, cfg.Webhook.DedupTTL))
	}

	// Typed nils must not reach the handlers as non-nil interfaces
	var dbChecker handler.DatabaseChecker
	if db != nil {
		dbChecker = db
	}

	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:      cfg.Telemetry.ServiceName,
		MaxBodySize:      cfg.Webhook.MaxBodySize,
		TrustedProxies:   cfg.HTTP.TrustedProxies,
		TracingEnabled:   cfg.Telemetry.Enabled,
		ProfilingEnabled: cfg.Telemetry.ProfilingEnabled,
		MeterProvider:    tel.Meter,
		Logger:           log,
	}, router.Handlers{
		Webhooks: handler.NewWebhookHandler(cfg.Webhook.Secret, orderSync, inventorySync, webhookOpts...),
		Orders:   handler.NewOrderHandler(orderSync, importScheduler),
		Products: handler.NewProductHandler(inventorySync),
		Sync:     handler.NewSyncHandler(records, importScheduler),
		Health:   handler.NewHealthHandler(dbChecker, importScheduler, version),
	})
	if err != nil {
		log.Fatal("Failed to configure HTTP engine", zap.Error(err))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := importScheduler.Stop(ctx); err != nil {
		log.Error("Import scheduler did not stop cleanly", zap.Error(err))
	}
	if err := tel.Shutdown(ctx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// openDatabase applies the pending migrations then opens the GORM connection
// with zap logging and query tracing
func openDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	if err := migrateUp(cfg.Database.DSN(), log); err != nil {
		return nil, err
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
	}, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// migrateUp runs the embedded migrations on a dedicated connection, since the
// migrator closes the connection it was given
func migrateUp(dsn string, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}

	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Up()
}

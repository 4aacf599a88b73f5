package router

import (
	"github.com/erp/fulfillment-sync/internal/infrastructure/logger"
	"github.com/erp/fulfillment-sync/internal/infrastructure/telemetry"
	"github.com/erp/fulfillment-sync/internal/interfaces/http/handler"
	"github.com/erp/fulfillment-sync/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by NewEngine
type Handlers struct {
	Webhooks *handler.WebhookHandler
	Orders   *handler.OrderHandler
	Products *handler.ProductHandler
	Sync     *handler.SyncHandler
	Health   *handler.HealthHandler
}

// EngineConfig holds the middleware settings of the HTTP engine
type EngineConfig struct {
	ServiceName      string
	MaxBodySize      int64
	TrustedProxies   []string
	TracingEnabled   bool
	ProfilingEnabled bool
	MeterProvider    *telemetry.MeterProvider
	Logger           *zap.Logger
}

// NewEngine builds the gin engine with the middleware chain and every route:
//
//	GET  /health
//	POST /api/v1/webhooks/order-status
//	POST /api/v1/webhooks/inventory
//	POST /api/v1/orders
//	POST /api/v1/orders/import
//	POST /api/v1/orders/:ref/import
//	GET  /api/v1/products/sku-mappings
//	GET  /api/v1/products/inventories
//	GET  /api/v1/sync-records
//	GET  /api/v1/sync/jobs
//	GET  /api/v1/sync/jobs/:id
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.ServiceName,
			Enabled:     cfg.TracingEnabled,
		}),
		middleware.SpanEnricher(),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: cfg.MeterProvider,
			ServiceName:   cfg.ServiceName,
			Enabled:       cfg.MeterProvider != nil,
		}),
		middleware.Profiling(cfg.ProfilingEnabled, "/health"),
	)

	engine.GET("/health", h.Health.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))
	if cfg.MaxBodySize > 0 {
		r.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	r.Register(NewDomainGroup("webhooks", "/webhooks").
		POST("/order-status", h.Webhooks.HandleOrderStatus).
		POST("/inventory", h.Webhooks.HandleInventory))

	r.Register(NewDomainGroup("orders", "/orders").
		POST("", h.Orders.UpdateOrCreateOrder).
		POST("/import", h.Orders.ImportAllOrders).
		POST("/:ref/import", h.Orders.ImportOrder))

	r.Register(NewDomainGroup("products", "/products").
		GET("/sku-mappings", h.Products.GetSKUMappings).
		GET("/inventories", h.Products.GetInventories))

	r.Register(NewDomainGroup("sync-records", "/sync-records").
		GET("", h.Sync.ListSyncRecords))

	r.Register(NewDomainGroup("sync", "/sync").
		GET("/jobs", h.Sync.ListImportJobs).
		GET("/jobs/:id", h.Sync.GetImportJob))

	r.Setup()
	return engine, nil
}

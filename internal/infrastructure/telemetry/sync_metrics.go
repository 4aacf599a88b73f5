// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// SyncMetrics tracks the decisions and outcomes of the order and inventory
// synchronizers and of the webhook endpoints.
type SyncMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderDecisionTotal   *Counter
	importBatchTotal     *Counter
	importedOrderTotal   *Counter
	stockUpdateTotal     *Counter
	webhookDeliveryTotal *Counter

	// Histogram metrics
	importDuration *Histogram
}

// SyncMetricsConfig holds configuration for sync metrics.
type SyncMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewSyncMetrics creates a new SyncMetrics instance.
func NewSyncMetrics(cfg SyncMetricsConfig) (*SyncMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &SyncMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error

	sm.orderDecisionTotal, err = NewCounter(
		cfg.Meter,
		"fsync_order_decision_total",
		"Total number of create-or-skip decisions taken for catalog order events",
		"{decisions}",
	)
	if err != nil {
		return nil, err
	}

	sm.importBatchTotal, err = NewCounter(
		cfg.Meter,
		"fsync_import_batch_total",
		"Total number of order batches written to the catalog during imports",
		"{batches}",
	)
	if err != nil {
		return nil, err
	}

	sm.importedOrderTotal, err = NewCounter(
		cfg.Meter,
		"fsync_imported_order_total",
		"Total number of orders written to the catalog during imports",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	sm.stockUpdateTotal, err = NewCounter(
		cfg.Meter,
		"fsync_stock_update_total",
		"Total number of variant stock levels pushed to the catalog",
		"{variants}",
	)
	if err != nil {
		return nil, err
	}

	sm.webhookDeliveryTotal, err = NewCounter(
		cfg.Meter,
		"fsync_webhook_delivery_total",
		"Total number of webhook deliveries received",
		"{deliveries}",
	)
	if err != nil {
		return nil, err
	}

	sm.importDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "fsync_import_duration_seconds",
		Description: "Duration of bulk order imports",
		Unit:        "s",
		Boundaries:  ImportDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return sm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// RecordOrderDecision records the outcome of a create-or-skip decision
// (created, skipped, already_exists, create_failed).
func (sm *SyncMetrics) RecordOrderDecision(ctx context.Context, outcome string) {
	sm.orderDecisionTotal.Inc(ctx, AttrSyncOutcome.String(outcome))
}

// RecordImportBatch records one catalog batch write and the number of orders it carried.
func (sm *SyncMetrics) RecordImportBatch(ctx context.Context, orders int, err error) {
	outcome := "succeeded"
	if err != nil {
		outcome = "failed"
	}
	sm.importBatchTotal.Inc(ctx, AttrSyncOutcome.String(outcome))
	if err == nil {
		sm.importedOrderTotal.Add(ctx, int64(orders))
	}
}

// RecordImportDuration records how long a bulk import took.
func (sm *SyncMetrics) RecordImportDuration(ctx context.Context, d time.Duration) {
	sm.importDuration.RecordDuration(ctx, d)
}

// =============================================================================
// Inventory Metrics
// =============================================================================

// RecordStockUpdate records a batch of variant stock levels pushed to the catalog.
func (sm *SyncMetrics) RecordStockUpdate(ctx context.Context, variants int, err error) {
	outcome := "succeeded"
	if err != nil {
		outcome = "failed"
	}
	sm.stockUpdateTotal.Add(ctx, int64(variants), AttrSyncOutcome.String(outcome))
}

// =============================================================================
// Webhook Metrics
// =============================================================================

// RecordWebhookDelivery records a webhook delivery by topic and handling result
// (processed, duplicate, rejected, challenge).
func (sm *SyncMetrics) RecordWebhookDelivery(ctx context.Context, topic, result string) {
	sm.webhookDeliveryTotal.Inc(ctx,
		AttrWebhookTopic.String(topic),
		AttrSyncOutcome.String(result),
	)
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewSyncMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// =============================================================================
// Attribute Key Constants
// =============================================================================

// Metric attribute keys
var (
	AttrSyncOutcome  = attribute.Key("sync.outcome")
	AttrWebhookTopic = attribute.Key("webhook.topic")

	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPRoute      = attribute.Key("http.route")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
)

// HTTPDurationBuckets are bucket boundaries for HTTP request latency (seconds).
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// ImportDurationBuckets are bucket boundaries for bulk import duration (seconds).
var ImportDurationBuckets = []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600}

package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/erp/fulfillment-sync/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OrderSynchronizer decides, for every inbound order event, whether to create,
// skip or reconcile an order across the fulfillment provider and the catalog.
//
// It holds no mutable state between calls; every entry point may be invoked
// concurrently and more than once for the same event.
type OrderSynchronizer struct {
	orders     fulfillment.OrderGateway
	catalog    fulfillment.CatalogOrderGateway
	translator *fulfillment.StatusTranslator
	cfg        fulfillment.SyncConfig
	recorder   SyncRecorder
	metrics    *telemetry.SyncMetrics
	logger     *zap.Logger
	now        func() time.Time
}

// OrderSynchronizerOption is a functional option for configuring the synchronizer
type OrderSynchronizerOption func(*OrderSynchronizer)

// WithOrderLogger sets the logger
func WithOrderLogger(logger *zap.Logger) OrderSynchronizerOption {
	return func(s *OrderSynchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOrderRecorder sets the audit log recorder
func WithOrderRecorder(recorder SyncRecorder) OrderSynchronizerOption {
	return func(s *OrderSynchronizer) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithOrderMetrics sets the metrics collector
func WithOrderMetrics(metrics *telemetry.SyncMetrics) OrderSynchronizerOption {
	return func(s *OrderSynchronizer) {
		s.metrics = metrics
	}
}

// WithClock overrides the clock used to compute the import window
func WithClock(now func() time.Time) OrderSynchronizerOption {
	return func(s *OrderSynchronizer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewOrderSynchronizer creates a new OrderSynchronizer
func NewOrderSynchronizer(
	orders fulfillment.OrderGateway,
	catalog fulfillment.CatalogOrderGateway,
	cfg fulfillment.SyncConfig,
	opts ...OrderSynchronizerOption,
) (*OrderSynchronizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &OrderSynchronizer{
		orders:   orders,
		catalog:  catalog,
		cfg:      cfg,
		recorder: NopRecorder{},
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.translator = fulfillment.NewStatusTranslator(fulfillment.NewSKUResolver(cfg.SKUPrefix, s.logger), cfg)
	return s, nil
}

// ---------------------------------------------------------------------------
// Create on demand
// ---------------------------------------------------------------------------

// UpdateOrCreateOrder forwards a catalog order to the fulfillment provider
// unless it is not forwardable or already known there, then writes the
// created order back to the catalog.
//
// The existence check and the create call are not atomic: two concurrent
// invocations for the same seller order id can both observe "not found" and
// both create. Duplicate webhook deliveries are filtered upstream, but
// independent events for the same order are not.
//
// A failed creation is logged and returns nil. A failed catalog write after a
// successful creation is returned.
func (s *OrderSynchronizer) UpdateOrCreateOrder(ctx context.Context, event fulfillment.CatalogOrderEvent) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "order_sync", "update_or_create",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, event.OrderID),
		telemetry.WithAttribute(telemetry.SpanAttrOrderStatus, string(event.Status)),
	)
	defer span.End()

	log := s.logger.With(
		zap.String("order_id", event.OrderID),
		zap.String("external_id", event.ExternalID),
	)

	if !event.Status.IsForwardable() {
		log.Warn("Order is not forwardable, skipping",
			zap.String("status", string(event.Status)),
		)
		s.decision(ctx, event, fulfillment.SyncOutcomeSkipped, "status "+string(event.Status))
		return nil
	}

	if event.SellerOrderID != "" {
		existing := s.orders.GetOrder(ctx, event.SellerOrderID)
		switch existing.Kind() {
		case fulfillment.ResultSuccess:
			log.Info("Order already exists in fulfillment provider, not creating",
				zap.String("seller_order_id", event.SellerOrderID),
			)
			s.decision(ctx, event, fulfillment.SyncOutcomeAlreadyExists, "")
			return nil
		case fulfillment.ResultTransportError:
			log.Warn("Order lookup failed, treating order as absent",
				zap.String("seller_order_id", event.SellerOrderID),
				zap.Error(existing.Err()),
			)
		}
	}

	creation := s.translator.ToCreation(&event)
	log.Info("Creating order in fulfillment provider",
		zap.Int("line_items", len(creation.LineItems)),
	)

	created := s.orders.CreateOrder(ctx, creation)
	order, ok := created.Value()
	if !ok {
		log.Error("Failed to create order in fulfillment provider", zap.Error(created.Err()))
		telemetry.AddEvent(span, "create_failed")
		s.decision(ctx, event, fulfillment.SyncOutcomeCreateFailed, errMessage(created.Err()))
		return nil
	}

	log = log.With(zap.String("seller_order_id", order.ID))
	log.Info("Order created in fulfillment provider")

	update := s.translator.ToCatalogOrder(&order)
	update.ID = event.OrderID
	if update.Status == "" {
		update.Status = event.Status
		if update.Status == "" {
			update.Status = fulfillment.OrderStatusCompleted
		}
	}

	if err := s.catalog.UpsertOrders(ctx, []fulfillment.CatalogOrder{update}); err != nil {
		log.Error("Failed to update created order in catalog", zap.Error(err))
		telemetry.RecordError(span, err)
		return fmt.Errorf("update catalog order %s: %w", event.OrderID, err)
	}

	log.Info("Order updated in catalog")
	event.SellerOrderID = order.ID
	s.decision(ctx, event, fulfillment.SyncOutcomeCreated, "")
	return nil
}

func (s *OrderSynchronizer) decision(ctx context.Context, event fulfillment.CatalogOrderEvent, outcome fulfillment.SyncOutcome, message string) {
	if s.metrics != nil {
		s.metrics.RecordOrderDecision(ctx, string(outcome))
	}
	record := fulfillment.NewSyncRecord(fulfillment.SyncOperationCreateOrder, outcome)
	record.OrderID = event.OrderID
	record.SellerOrderID = event.SellerOrderID
	record.ExternalID = event.ExternalID
	record.Message = message
	s.recorder.Record(ctx, record)
}

// ---------------------------------------------------------------------------
// Bulk import
// ---------------------------------------------------------------------------

// ImportAllOrders imports every order submitted during the configured window
// ending now
func (s *OrderSynchronizer) ImportAllOrders(ctx context.Context) (fulfillment.BatchReport, error) {
	return s.ImportOrders(ctx, fulfillment.LastMonths(s.now(), s.cfg.ImportWindowMonths))
}

// ImportOrders lists provider orders submitted in the window and upserts them
// into the catalog in sequential batches, in listing order. A failed batch is
// logged and the next batch is still attempted. A failed listing is logged
// and imports nothing. Only context cancellation is returned as an error.
func (s *OrderSynchronizer) ImportOrders(ctx context.Context, window fulfillment.DateRange) (fulfillment.BatchReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order_sync", "import_orders",
		telemetry.WithAttribute("from", window.From.Format(time.RFC3339)),
		telemetry.WithAttribute("to", window.To.Format(time.RFC3339)),
	)
	defer span.End()

	started := time.Now()
	report := fulfillment.BatchReport{
		From: window.From.Format(time.RFC3339),
		To:   window.To.Format(time.RFC3339),
	}

	listed := fulfillment.Collect(s.orders.ListOrders(ctx, window))
	orders, ok := listed.Value()
	if !ok {
		s.logger.Error("Failed to list orders for import, nothing imported",
			zap.String("from", report.From),
			zap.String("to", report.To),
			zap.Error(listed.Err()),
		)
		telemetry.RecordError(span, listed.Err())
		report.ListFailed = true
		return report, nil
	}
	report.OrdersListed = len(orders)

	priced, zeroPrice := partitionZeroPrice(orders)
	report.ZeroPriceOrders = len(zeroPrice)
	if s.cfg.ZeroPricePolicy == fulfillment.ZeroPricePolicySkip {
		orders = priced
		report.OrdersSkipped = len(zeroPrice)
		if len(zeroPrice) > 0 {
			s.logger.Info("Skipping orders with zero unit price lines",
				zap.Int("count", len(zeroPrice)),
			)
		}
	}

	s.logger.Info("Importing orders",
		zap.String("from", report.From),
		zap.String("to", report.To),
		zap.Int("orders", len(orders)),
		zap.Int("batch_size", s.cfg.OrderBatchSize),
	)

	if err := s.importBatches(ctx, orders, &report); err != nil {
		telemetry.RecordError(span, err)
		return report, err
	}

	if s.metrics != nil {
		s.metrics.RecordImportDuration(ctx, time.Since(started))
	}
	telemetry.SetAttributes(span,
		"orders_imported", report.OrdersImported,
		"failed_batches", report.FailedBatches,
	)
	s.logger.Info("Order import finished",
		zap.Int("orders_imported", report.OrdersImported),
		zap.Int("batches", report.Batches),
		zap.Int("failed_batches", report.FailedBatches),
	)
	return report, nil
}

func (s *OrderSynchronizer) importBatches(ctx context.Context, orders []fulfillment.Order, report *fulfillment.BatchReport) error {
	for i, batch := range chunk(orders, s.cfg.OrderBatchSize) {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("Order import interrupted",
				zap.Int("batches_done", i),
				zap.Error(err),
			)
			return err
		}

		number := i + 1
		report.Batches++
		err := s.catalog.UpsertOrders(ctx, s.translator.ToCatalogOrders(batch))

		if s.metrics != nil {
			s.metrics.RecordImportBatch(ctx, len(batch), err)
		}
		record := fulfillment.NewSyncRecord(fulfillment.SyncOperationImportOrders, fulfillment.SyncOutcomeSucceeded)
		record.BatchNumber = number
		record.OrderCount = len(batch)

		if err != nil {
			s.logger.Error("Failed to import order batch, continuing with next batch",
				zap.Int("batch", number),
				zap.Int("orders", len(batch)),
				zap.Error(err),
			)
			report.FailedBatches++
			report.FailedBatchIndex = append(report.FailedBatchIndex, number)
			record.Outcome = fulfillment.SyncOutcomeFailed
			record.Message = err.Error()
			s.recorder.Record(ctx, record)
			continue
		}

		s.logger.Debug("Imported order batch",
			zap.Int("batch", number),
			zap.Int("orders", len(batch)),
		)
		report.OrdersImported += len(batch)
		s.recorder.Record(ctx, record)
	}
	return nil
}

// ImportOrder imports a single provider order into the catalog. Unlike the
// bulk import every failure is returned, ErrOrderNotFound included.
func (s *OrderSynchronizer) ImportOrder(ctx context.Context, sellerOrderID string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "order_sync", "import_order",
		telemetry.WithAttribute(telemetry.SpanAttrSellerOrderID, sellerOrderID),
	)
	defer span.End()

	record := fulfillment.NewSyncRecord(fulfillment.SyncOperationImportOrder, fulfillment.SyncOutcomeSucceeded)
	record.SellerOrderID = sellerOrderID
	record.OrderCount = 1
	defer func() { s.recorder.Record(ctx, record) }()

	result := s.orders.GetOrder(ctx, sellerOrderID)
	switch result.Kind() {
	case fulfillment.ResultNotFound:
		record.Outcome = fulfillment.SyncOutcomeNotFound
		s.logger.Warn("Order to import not found", zap.String("seller_order_id", sellerOrderID))
		return fmt.Errorf("%w: %s", fulfillment.ErrOrderNotFound, sellerOrderID)
	case fulfillment.ResultTransportError:
		record.Outcome = fulfillment.SyncOutcomeFailed
		record.Message = errMessage(result.Err())
		s.logger.Error("Failed to fetch order to import",
			zap.String("seller_order_id", sellerOrderID),
			zap.Error(result.Err()),
		)
		telemetry.RecordError(span, result.Err())
		return fmt.Errorf("fetch order %s: %w", sellerOrderID, result.Err())
	}

	order, _ := result.Value()
	record.ExternalID = order.ExternalID

	if err := s.catalog.UpsertOrders(ctx, s.translator.ToCatalogOrders([]fulfillment.Order{order})); err != nil {
		record.Outcome = fulfillment.SyncOutcomeFailed
		record.Message = err.Error()
		s.logger.Error("Failed to import order",
			zap.String("seller_order_id", sellerOrderID),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return fmt.Errorf("import order %s: %w", sellerOrderID, err)
	}

	s.logger.Info("Order imported", zap.String("seller_order_id", sellerOrderID))
	return nil
}

// ---------------------------------------------------------------------------
// Status reconciliation
// ---------------------------------------------------------------------------

// UpdateOrderStatus reloads the provider order named by the update, overlays
// the new status code and writes the result to the catalog. Failures are
// logged and returned; callers acknowledging webhooks decide whether to retry.
func (s *OrderSynchronizer) UpdateOrderStatus(ctx context.Context, update fulfillment.StatusUpdate) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "order_sync", "update_status",
		telemetry.WithAttribute(telemetry.SpanAttrSellerOrderID, update.ID),
		telemetry.WithAttribute("code", string(update.Code)),
	)
	defer span.End()

	log := s.logger.With(
		zap.String("seller_order_id", update.ID),
		zap.String("external_id", update.ExternalID),
		zap.String("code", string(update.Code)),
	)

	record := fulfillment.NewSyncRecord(fulfillment.SyncOperationUpdateStatus, fulfillment.SyncOutcomeSucceeded)
	record.SellerOrderID = update.ID
	record.ExternalID = update.ExternalID
	record.Message = string(update.Code)
	defer func() { s.recorder.Record(ctx, record) }()

	result := s.orders.GetOrder(ctx, update.ID)
	switch result.Kind() {
	case fulfillment.ResultNotFound:
		record.Outcome = fulfillment.SyncOutcomeNotFound
		log.Warn("Order to update not found in fulfillment provider")
		return fmt.Errorf("%w: %s", fulfillment.ErrOrderNotFound, update.ID)
	case fulfillment.ResultTransportError:
		record.Outcome = fulfillment.SyncOutcomeFailed
		record.Message = errMessage(result.Err())
		log.Error("Failed to fetch order to update", zap.Error(result.Err()))
		telemetry.RecordError(span, result.Err())
		return fmt.Errorf("fetch order %s: %w", update.ID, result.Err())
	}

	order, _ := result.Value()
	order.OverlayStatus(update.Code)

	if err := s.catalog.UpsertOrders(ctx, []fulfillment.CatalogOrder{s.translator.ToCatalogOrder(&order)}); err != nil {
		record.Outcome = fulfillment.SyncOutcomeFailed
		record.Message = err.Error()
		log.Error("Failed to update order status in catalog", zap.Error(err))
		telemetry.RecordError(span, err)
		return fmt.Errorf("update order status %s: %w", update.ID, err)
	}

	log.Info("Order status updated in catalog")
	return nil
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

package fulfillment

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/erp/fulfillment-sync/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// InventorySynchronizer pushes provider stock levels to catalog variants and
// exposes the provider product catalog keyed by catalog SKU
type InventorySynchronizer struct {
	products fulfillment.ProductGateway
	variants fulfillment.CatalogVariantGateway
	skus     *fulfillment.SKUResolver
	recorder SyncRecorder
	metrics  *telemetry.SyncMetrics
	logger   *zap.Logger
}

// InventorySynchronizerOption is a functional option for configuring the synchronizer
type InventorySynchronizerOption func(*InventorySynchronizer)

// WithInventoryLogger sets the logger
func WithInventoryLogger(logger *zap.Logger) InventorySynchronizerOption {
	return func(s *InventorySynchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInventoryRecorder sets the audit log recorder
func WithInventoryRecorder(recorder SyncRecorder) InventorySynchronizerOption {
	return func(s *InventorySynchronizer) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithInventoryMetrics sets the metrics collector
func WithInventoryMetrics(metrics *telemetry.SyncMetrics) InventorySynchronizerOption {
	return func(s *InventorySynchronizer) {
		s.metrics = metrics
	}
}

// NewInventorySynchronizer creates a new InventorySynchronizer
func NewInventorySynchronizer(
	products fulfillment.ProductGateway,
	variants fulfillment.CatalogVariantGateway,
	skuPrefix string,
	opts ...InventorySynchronizerOption,
) (*InventorySynchronizer, error) {
	if skuPrefix == "" {
		return nil, fulfillment.ErrInvalidSKUPrefix
	}

	s := &InventorySynchronizer{
		products: products,
		variants: variants,
		recorder: NopRecorder{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.skus = fulfillment.NewSKUResolver(skuPrefix, s.logger)
	return s, nil
}

// ApplyStockSnapshot overwrites the catalog stock level of every variant named
// in the snapshot with a single batched call. Variants are sent sorted by SKU.
// There is no diffing against previous levels.
//
// References resolving to the same SKU are folded into one variant carrying
// the level of the lexically greatest reference.
func (s *InventorySynchronizer) ApplyStockSnapshot(ctx context.Context, snapshot fulfillment.StockSnapshot) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory_sync", "apply_stock_snapshot",
		telemetry.WithAttribute(telemetry.SpanAttrVariants, len(snapshot)),
	)
	defer span.End()

	if len(snapshot) == 0 {
		s.logger.Debug("Empty stock snapshot, nothing to update")
		return nil
	}

	variants := make([]fulfillment.VariantStock, 0, len(snapshot))
	bySKU := make(map[string]int, len(snapshot))
	for _, reference := range slices.Sorted(maps.Keys(snapshot)) {
		sku := s.skus.Resolve(reference)
		if i, seen := bySKU[sku]; seen {
			s.logger.Warn("Product references share a SKU, keeping the last one",
				zap.String("sku", sku),
				zap.String("product_reference", reference),
			)
			variants[i].StockLevel = snapshot[reference]
			continue
		}
		bySKU[sku] = len(variants)
		variants = append(variants, fulfillment.VariantStock{
			SKU:        sku,
			StockLevel: snapshot[reference],
		})
	}
	slices.SortFunc(variants, func(a, b fulfillment.VariantStock) int {
		return cmp.Compare(a.SKU, b.SKU)
	})

	s.logger.Info("Updating variant stocks", zap.Int("variants", len(variants)))

	err := s.variants.UpdateVariants(ctx, variants)
	if s.metrics != nil {
		s.metrics.RecordStockUpdate(ctx, len(variants), err)
	}

	record := fulfillment.NewSyncRecord(fulfillment.SyncOperationApplyStock, fulfillment.SyncOutcomeSucceeded)
	record.Message = fmt.Sprintf("%d variants", len(variants))
	if err != nil {
		record.Outcome = fulfillment.SyncOutcomeFailed
		record.Message = err.Error()
	}
	s.recorder.Record(ctx, record)

	if err != nil {
		s.logger.Error("Failed to update variant stocks", zap.Error(err))
		telemetry.RecordError(span, err)
		return fmt.Errorf("update variant stocks: %w", err)
	}
	return nil
}

// SKUMappings returns the provider product id of every product, keyed by catalog SKU
func (s *InventorySynchronizer) SKUMappings(ctx context.Context) (map[string]string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory_sync", "sku_mappings")
	defer span.End()

	result := fulfillment.Collect(s.products.ListProducts(ctx))
	products, ok := result.Value()
	if !ok {
		telemetry.RecordError(span, result.Err())
		return nil, fmt.Errorf("list products: %w", result.Err())
	}

	mappings := make(map[string]string, len(products))
	for _, product := range products {
		mappings[s.skus.Resolve(product.ID)] = product.ID
	}
	return mappings, nil
}

// ProductInventories returns the available quantity of every product, keyed
// by catalog SKU. Unknown quantities are reported as zero.
func (s *InventorySynchronizer) ProductInventories(ctx context.Context) (map[string]int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory_sync", "product_inventories")
	defer span.End()

	result := fulfillment.Collect(s.products.ListInventories(ctx))
	inventories, ok := result.Value()
	if !ok {
		telemetry.RecordError(span, result.Err())
		return nil, fmt.Errorf("list inventories: %w", result.Err())
	}

	levels := make(map[string]int, len(inventories))
	for _, inventory := range inventories {
		levels[s.skus.Resolve(inventory.Product)] = inventory.AvailableOrZero()
	}
	return levels, nil
}

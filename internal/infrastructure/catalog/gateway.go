package catalog

import (
	"context"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"go.uber.org/zap"
)

// OrderGateway implements fulfillment.CatalogOrderGateway
type OrderGateway struct {
	client *Client
}

// NewOrderGateway creates a new catalog order gateway
func NewOrderGateway(client *Client) *OrderGateway {
	return &OrderGateway{client: client}
}

// UpsertOrders creates or updates the batch with a single call
func (g *OrderGateway) UpsertOrders(ctx context.Context, orders []fulfillment.CatalogOrder) error {
	body := ordersBody{Orders: make([]orderDTO, 0, len(orders))}
	for _, o := range orders {
		body.Orders = append(body.Orders, toOrderDTO(o))
	}

	g.client.logger.Debug("Upserting catalog orders", zap.Int("orders", len(orders)))
	return g.client.post(ctx, pathOrders, body)
}

// VariantGateway implements fulfillment.CatalogVariantGateway
type VariantGateway struct {
	client *Client
}

// NewVariantGateway creates a new catalog variant gateway
func NewVariantGateway(client *Client) *VariantGateway {
	return &VariantGateway{client: client}
}

// UpdateVariants overwrites the stock level of the batch with a single call
func (g *VariantGateway) UpdateVariants(ctx context.Context, variants []fulfillment.VariantStock) error {
	g.client.logger.Debug("Updating catalog variants", zap.Int("variants", len(variants)))
	return g.client.post(ctx, pathVariants, variantsBody{Variants: variants})
}

// Ensure gateways implement the catalog ports
var (
	_ fulfillment.CatalogOrderGateway   = (*OrderGateway)(nil)
	_ fulfillment.CatalogVariantGateway = (*VariantGateway)(nil)
)

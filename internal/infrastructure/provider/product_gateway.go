package provider

import (
	"context"
	"iter"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"go.uber.org/zap"
)

// ProductGateway implements fulfillment.ProductGateway over the provider API
type ProductGateway struct {
	client *Client
	logger *zap.Logger
}

// NewProductGateway creates a new product gateway
func NewProductGateway(client *Client) *ProductGateway {
	return &ProductGateway{
		client: client,
		logger: client.logger.Named("provider_products"),
	}
}

// ListProducts lists every product of the merchant
func (g *ProductGateway) ListProducts(ctx context.Context) iter.Seq2[fulfillment.Product, error] {
	pageSize := g.client.config.InventoryPageSize
	return fulfillment.Pages(ctx, func(ctx context.Context, token string) ([]fulfillment.Product, string, error) {
		var resp listProductsResponse
		if err := g.client.post(ctx, endpointListProducts, pageRequest{PageSize: pageSize, PageToken: token}, &resp); err != nil {
			g.logger.Error("Failed to get products from provider", zap.String("page_token", token), zap.Error(err))
			return nil, "", err
		}
		return resp.Products, resp.NextPageToken, nil
	})
}

// ListInventories lists the stock of every product
func (g *ProductGateway) ListInventories(ctx context.Context) iter.Seq2[fulfillment.Inventory, error] {
	pageSize := g.client.config.InventoryPageSize
	return fulfillment.Pages(ctx, func(ctx context.Context, token string) ([]fulfillment.Inventory, string, error) {
		var resp listInventoriesResponse
		if err := g.client.post(ctx, endpointListInventories, pageRequest{PageSize: pageSize, PageToken: token}, &resp); err != nil {
			g.logger.Error("Failed to get inventories from provider", zap.String("page_token", token), zap.Error(err))
			return nil, "", err
		}
		return resp.Inventories, resp.NextPageToken, nil
	})
}

// Ensure ProductGateway implements fulfillment.ProductGateway
var _ fulfillment.ProductGateway = (*ProductGateway)(nil)

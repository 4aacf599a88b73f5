package provider

import (
	"context"
	"errors"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"go.uber.org/zap"
)

// OrderGateway implements fulfillment.OrderGateway over the provider API
type OrderGateway struct {
	client *Client
	logger *zap.Logger
}

// NewOrderGateway creates a new order gateway
func NewOrderGateway(client *Client) *OrderGateway {
	return &OrderGateway{
		client: client,
		logger: client.logger.Named("provider_orders"),
	}
}

// ListOrders lists orders submitted in the window. Pages are fetched on demand.
func (g *OrderGateway) ListOrders(ctx context.Context, window fulfillment.DateRange) fulfillment.OrderSeq {
	pageSize := g.client.config.OrderPageSize
	return fulfillment.Pages(ctx, func(ctx context.Context, token string) ([]fulfillment.Order, string, error) {
		var resp listOrdersResponse
		err := g.client.post(ctx, endpointListOrders, listOrdersRequest{
			DateRange: dateRange{From: window.From.UTC(), To: window.To.UTC()},
			PageSize:  pageSize,
			PageToken: token,
		}, &resp)
		if err != nil {
			g.logger.Error("Failed to list orders from provider",
				zap.String("page_token", token),
				zap.Error(err),
			)
			return nil, "", err
		}
		return resp.Orders, resp.NextPageToken, nil
	})
}

// GetOrder fetches an order by its provider id
func (g *OrderGateway) GetOrder(ctx context.Context, sellerOrderID string) fulfillment.Result[fulfillment.Order] {
	var resp orderResponse
	err := g.client.post(ctx, endpointGetOrder, getOrderRequest{ID: sellerOrderID}, &resp)
	if errors.Is(err, fulfillment.ErrOrderNotFound) {
		return fulfillment.NotFound[fulfillment.Order]()
	}
	if err != nil {
		g.logger.Error("Failed to retrieve order from provider",
			zap.String("seller_order_id", sellerOrderID),
			zap.Error(err),
		)
		return fulfillment.TransportError[fulfillment.Order](err)
	}
	if resp.Order == nil || resp.Order.ID == "" {
		return fulfillment.NotFound[fulfillment.Order]()
	}
	return fulfillment.Success(*resp.Order)
}

// CreateOrder creates an order on the provider
func (g *OrderGateway) CreateOrder(ctx context.Context, req fulfillment.OrderCreation) fulfillment.Result[fulfillment.Order] {
	var resp orderResponse
	err := g.client.post(ctx, endpointCreateOrder, createOrderRequest{Order: req}, &resp)
	if err != nil {
		g.logger.Error("Failed to create order in provider",
			zap.String("external_id", req.ExternalID),
			zap.Error(err),
		)
		return fulfillment.TransportError[fulfillment.Order](err)
	}
	if resp.Order == nil || resp.Order.ID == "" {
		return fulfillment.TransportError[fulfillment.Order](fulfillment.ErrOrderCreateFailed)
	}
	return fulfillment.Success(*resp.Order)
}

// Ensure OrderGateway implements fulfillment.OrderGateway
var _ fulfillment.OrderGateway = (*OrderGateway)(nil)

package provider

import (
	"time"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
)

// Endpoint paths relative to the base URL
const (
	endpointListOrders      = "/ListOrders"
	endpointGetOrder        = "/GetOrder"
	endpointCreateOrder     = "/CreateOrder"
	endpointListProducts    = "/ListProducts"
	endpointListInventories = "/ListInventories"
)

type dateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type listOrdersRequest struct {
	DateRange dateRange `json:"date_range"`
	PageSize  int       `json:"page_size"`
	PageToken string    `json:"page_token"`
}

type listOrdersResponse struct {
	Orders        []fulfillment.Order `json:"orders"`
	NextPageToken string              `json:"next_page_token"`
}

type getOrderRequest struct {
	ID string `json:"id"`
}

type orderResponse struct {
	Order *fulfillment.Order `json:"order"`
}

type createOrderRequest struct {
	Order fulfillment.OrderCreation `json:"order"`
}

type pageRequest struct {
	PageSize  int    `json:"page_size"`
	PageToken string `json:"page_token"`
}

type listProductsResponse struct {
	Products      []fulfillment.Product `json:"products"`
	NextPageToken string                `json:"next_page_token"`
}

type listInventoriesResponse struct {
	Inventories   []fulfillment.Inventory `json:"inventories"`
	NextPageToken string                  `json:"next_page_token"`
}

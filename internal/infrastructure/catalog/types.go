package catalog

import (
	"encoding/json"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/shopspring/decimal"
)

// Endpoint paths relative to the base URL
const (
	pathOrders   = "catalog/orders"
	pathVariants = "catalog/variants"
)

// The catalog API expects money as JSON numbers, while the domain keeps
// decimals. The wire types below carry json.Number to avoid float rounding.

type ordersBody struct {
	Orders []orderDTO `json:"orders"`
}

type variantsBody struct {
	Variants []fulfillment.VariantStock `json:"variants"`
}

type orderDTO struct {
	ID              string                      `json:"id,omitempty"`
	SellerOrderID   string                      `json:"seller_order_id"`
	ExternalID      string                      `json:"external_id,omitempty"`
	Status          fulfillment.OrderStatus     `json:"status,omitempty"`
	PaymentStatus   fulfillment.PaymentStatus   `json:"payment_status,omitempty"`
	Email           string                      `json:"email,omitempty"`
	BillingAddress  *fulfillment.CatalogAddress `json:"billing_address,omitempty"`
	ShippingAddress *fulfillment.CatalogAddress `json:"shipping_address,omitempty"`
	CurrencyCode    string                      `json:"currency_code,omitempty"`
	Items           []lineItemDTO               `json:"items"`
	ShippingMethod  *shippingMethodDTO          `json:"shipping_method,omitempty"`
	CreationDate    string                      `json:"creation_date,omitempty"`
	ERPTrackingName string                      `json:"erp_tracking_name,omitempty"`
	ERPTrackingURL  string                      `json:"erp_tracking_url,omitempty"`
}

type lineItemDTO struct {
	VariantSKU        string      `json:"variant_sku"`
	Quantity          int         `json:"quantity"`
	UnitPrice         json.Number `json:"unit_price"`
	FulfilledQuantity *int        `json:"fulfilled_quantity,omitempty"`
	ShippedQuantity   *int        `json:"shipped_quantity,omitempty"`
}

type shippingMethodDTO struct {
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func toOrderDTO(o fulfillment.CatalogOrder) orderDTO {
	dto := orderDTO{
		ID:              o.ID,
		SellerOrderID:   o.SellerOrderID,
		ExternalID:      o.ExternalID,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		Email:           o.Email,
		BillingAddress:  o.BillingAddress,
		ShippingAddress: o.ShippingAddress,
		CurrencyCode:    o.CurrencyCode,
		Items:           make([]lineItemDTO, 0, len(o.Items)),
		CreationDate:    o.CreationDate,
		ERPTrackingName: o.ERPTrackingName,
		ERPTrackingURL:  o.ERPTrackingURL,
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, lineItemDTO{
			VariantSKU:        item.VariantSKU,
			Quantity:          item.Quantity,
			UnitPrice:         number(item.UnitPrice),
			FulfilledQuantity: item.FulfilledQuantity,
			ShippedQuantity:   item.ShippedQuantity,
		})
	}
	if o.ShippingMethod != nil {
		dto.ShippingMethod = &shippingMethodDTO{
			Name:  o.ShippingMethod.Name,
			Price: number(o.ShippingMethod.Price),
		}
	}
	return dto
}

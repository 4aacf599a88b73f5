package fulfillment

import (
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// OrderStatus represents the high-level status of an order in the catalog
// ---------------------------------------------------------------------------

// OrderStatus represents the high-level status of an order in the catalog
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusArchived       OrderStatus = "archived"
	OrderStatusCanceled       OrderStatus = "canceled"
	OrderStatusRejected       OrderStatus = "rejected"
	OrderStatusRequiresAction OrderStatus = "requires_action"
)

// IsValid returns true if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusArchived,
		OrderStatusCanceled, OrderStatusRejected, OrderStatusRequiresAction:
		return true
	default:
		return false
	}
}

// IsForwardable returns false for orders that must never reach the provider:
// pending orders are not validated yet, canceled and rejected ones are dead.
func (s OrderStatus) IsForwardable() bool {
	switch s {
	case OrderStatusPending, OrderStatusCanceled, OrderStatusRejected:
		return false
	default:
		return true
	}
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// FulfillmentStatus is the catalog-side fulfillment progress of an order
type FulfillmentStatus string

const (
	FulfillmentStatusNotFulfilled       FulfillmentStatus = "not_fulfilled"
	FulfillmentStatusPartiallyFulfilled FulfillmentStatus = "partially_fulfilled"
	FulfillmentStatusFulfilled          FulfillmentStatus = "fulfilled"
	FulfillmentStatusPartiallyShipped   FulfillmentStatus = "partially_shipped"
	FulfillmentStatusShipped            FulfillmentStatus = "shipped"
	FulfillmentStatusPartiallyReturned  FulfillmentStatus = "partially_returned"
	FulfillmentStatusReturned           FulfillmentStatus = "returned"
	FulfillmentStatusCanceled           FulfillmentStatus = "canceled"
	FulfillmentStatusRequiresAction     FulfillmentStatus = "requires_action"
)

// PaymentStatus is the catalog-side payment progress of an order
type PaymentStatus string

const (
	PaymentStatusNotPaid           PaymentStatus = "not_paid"
	PaymentStatusAwaiting          PaymentStatus = "awaiting"
	PaymentStatusCaptured          PaymentStatus = "captured"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusCanceled          PaymentStatus = "canceled"
	PaymentStatusRequiresAction    PaymentStatus = "requires_action"
)

// ---------------------------------------------------------------------------
// CatalogOrderEvent
// ---------------------------------------------------------------------------

// CatalogOrderEvent is an order-change notification emitted by the catalog.
// It is immutable once received and consumed once by the order synchronizer.
type CatalogOrderEvent struct {
	Event             string                   `json:"event"`
	OrderID           string                   `json:"order_id" binding:"required"`
	DisplayID         int                      `json:"display_id"`
	ExternalID        string                   `json:"external_id,omitempty"`
	SellerOrderID     string                   `json:"seller_order_id,omitempty"`
	Status            OrderStatus              `json:"status,omitempty" binding:"omitempty,oneof=pending completed archived canceled rejected requires_action"`
	FulfillmentStatus FulfillmentStatus        `json:"fulfillment_status,omitempty"`
	PaymentStatus     PaymentStatus            `json:"payment_status,omitempty"`
	CompanyName       string                   `json:"company_name"`
	CompanyID         string                   `json:"company_id"`
	CompanyExternalID string                   `json:"company_external_id,omitempty"`
	Email             string                   `json:"email" binding:"omitempty,email"`
	DeliveryDate      string                   `json:"delivery_date,omitempty"`
	Items             []CatalogOrderEventItem  `json:"items" binding:"dive"`
	ShippingAddress   CatalogOrderEventAddress `json:"shipping_address"`
	BillingAddress    CatalogOrderEventAddress `json:"billing_address"`
	CurrencyCode      string                   `json:"currency_code"`
	ShippingPrice     decimal.Decimal          `json:"shipping_price"`
	ShippingTax       decimal.Decimal          `json:"shipping_tax"`
	ShippingTaxRate   decimal.Decimal          `json:"shipping_tax_rate"`
	ShippingMethod    string                   `json:"shipping_method"`
	Comment           string                   `json:"comment"`
	CreationDate      string                   `json:"creation_date"`
}

// CatalogOrderEventItem is an ordered line of a catalog order event
type CatalogOrderEventItem struct {
	SKU            string          `json:"sku" binding:"required"`
	AlternativeSKU string          `json:"alternative_sku,omitempty"`
	Title          string          `json:"title"`
	Quantity       int             `json:"quantity" binding:"gte=0"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	UnitTax        decimal.Decimal `json:"unit_tax"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
}

// ProductReference returns the reference the provider knows the product by
func (i CatalogOrderEventItem) ProductReference() string {
	if i.AlternativeSKU != "" {
		return i.AlternativeSKU
	}
	return i.SKU
}

// CatalogOrderEventAddress is an address attached to a catalog order event
type CatalogOrderEventAddress struct {
	Label       string `json:"label,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Address1    string `json:"address_1,omitempty"`
	Address2    string `json:"address_2,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Country     string `json:"country,omitempty"`
}

// ---------------------------------------------------------------------------
// CatalogOrder (write shape of the catalog order endpoint)
// ---------------------------------------------------------------------------

// CatalogOrder is the order shape accepted by the catalog upsert endpoint
type CatalogOrder struct {
	ID              string            `json:"id,omitempty"`
	SellerOrderID   string            `json:"seller_order_id"`
	ExternalID      string            `json:"external_id,omitempty"`
	Status          OrderStatus       `json:"status,omitempty"`
	PaymentStatus   PaymentStatus     `json:"payment_status,omitempty"`
	Email           string            `json:"email,omitempty"`
	BillingAddress  *CatalogAddress   `json:"billing_address,omitempty"`
	ShippingAddress *CatalogAddress   `json:"shipping_address,omitempty"`
	CurrencyCode    string            `json:"currency_code,omitempty"`
	Items           []CatalogLineItem `json:"items"`
	ShippingMethod  *ShippingMethod   `json:"shipping_method,omitempty"`
	CreationDate    string            `json:"creation_date,omitempty"`
	ERPTrackingName string            `json:"erp_tracking_name,omitempty"`
	ERPTrackingURL  string            `json:"erp_tracking_url,omitempty"`
}

// CatalogLineItem is a catalog order line with derived fulfillment quantities
type CatalogLineItem struct {
	VariantSKU        string          `json:"variant_sku"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	FulfilledQuantity *int            `json:"fulfilled_quantity,omitempty"`
	ShippedQuantity   *int            `json:"shipped_quantity,omitempty"`
}

// CatalogAddress is an address in the catalog order shape
type CatalogAddress struct {
	Label       string `json:"label,omitempty"`
	Address1    string `json:"address_1,omitempty"`
	Address2    string `json:"address_2,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// ShippingMethod is the shipping method of a catalog order
type ShippingMethod struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

// StockSnapshot maps provider product references to available quantities.
// Each snapshot is applied as an absolute overwrite.
type StockSnapshot map[string]int

// VariantStock is a catalog stock-level update for one variant
type VariantStock struct {
	SKU        string `json:"sku"`
	StockLevel int    `json:"stock_level"`
}

// InventoryLevel is one product/warehouse stock line pushed by the provider
type InventoryLevel struct {
	Warehouse   string `json:"warehouse"`
	Product     string `json:"product" binding:"required"`
	ProductName string `json:"product_name"`
	Barcode     string `json:"barcode,omitempty"`
	Available   int    `json:"available"`
	Reserved    int    `json:"reserved"`
	Damaged     int    `json:"damaged"`
	Backordered int    `json:"backordered"`
}

// InventoryUpdateNotification is the envelope of an inventory webhook delivery
type InventoryUpdateNotification struct {
	UpdateTime  string           `json:"update_time"`
	Inventories []InventoryLevel `json:"inventories" binding:"dive"`
}

// Snapshot reduces the notification to a product reference → available map.
// When a product appears more than once the last line wins.
func (n InventoryUpdateNotification) Snapshot() StockSnapshot {
	snapshot := make(StockSnapshot, len(n.Inventories))
	for _, inv := range n.Inventories {
		snapshot[inv.Product] = inv.Available
	}
	return snapshot
}

// Product is a product known to the provider
type Product struct {
	ID string `json:"id"`
}

// Inventory is the provider stock of a product in a warehouse
type Inventory struct {
	Product     string `json:"product"`
	Warehouse   string `json:"warehouse"`
	Available   *int   `json:"available,omitempty"`
	InWarehouse *int   `json:"in_warehouse,omitempty"`
}

// AvailableOrZero returns the available quantity, zero when unknown
func (i Inventory) AvailableOrZero() int {
	if i.Available == nil {
		return 0
	}
	return *i.Available
}

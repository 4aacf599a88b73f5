package fulfillment

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// StatusCode represents the fulfillment status of an order on the provider
// ---------------------------------------------------------------------------

// StatusCode represents the fulfillment status of an order on the provider
type StatusCode string

const (
	// StatusCodeBackorder indicates stock is missing for at least one line
	StatusCodeBackorder StatusCode = "BACKORDER"
	// StatusCodePending indicates the order is waiting to be prepared
	StatusCodePending StatusCode = "PENDING"
	// StatusCodeException indicates the provider flagged the order for manual action
	StatusCodeException StatusCode = "EXCEPTION"
	// StatusCodeInPreparation indicates the order is being picked and packed
	StatusCodeInPreparation StatusCode = "IN_PREPARATION"
	// StatusCodeHandedOver indicates the parcel was handed to the carrier
	StatusCodeHandedOver StatusCode = "HANDED_OVER"
	// StatusCodeShipped indicates the parcel is in transit
	StatusCodeShipped StatusCode = "SHIPPED"
	// StatusCodeDelivered indicates the parcel was delivered
	StatusCodeDelivered StatusCode = "DELIVERED"
	// StatusCodeReturned indicates the parcel came back to the warehouse
	StatusCodeReturned StatusCode = "RETURNED"
	// StatusCodeCancelled indicates the order was cancelled on the provider
	StatusCodeCancelled StatusCode = "CANCELLED"
)

// IsValid returns true if the status code is known
func (c StatusCode) IsValid() bool {
	switch c {
	case StatusCodeBackorder, StatusCodePending, StatusCodeException,
		StatusCodeInPreparation, StatusCodeHandedOver, StatusCodeShipped,
		StatusCodeDelivered, StatusCodeReturned, StatusCodeCancelled:
		return true
	default:
		return false
	}
}

// IsShipped returns true once the parcel has left the warehouse
func (c StatusCode) IsShipped() bool {
	switch c {
	case StatusCodeHandedOver, StatusCodeShipped, StatusCodeDelivered:
		return true
	default:
		return false
	}
}

// IsFulfilled returns true once the warehouse has started preparing the order
func (c StatusCode) IsFulfilled() bool {
	return c == StatusCodeInPreparation || c.IsShipped()
}

// String returns the string representation of StatusCode
func (c StatusCode) String() string {
	return string(c)
}

// ---------------------------------------------------------------------------
// Order (provider side)
// ---------------------------------------------------------------------------

// Order represents an order as known to the fulfillment provider.
// It is read-only from this system's perspective.
type Order struct {
	ID                 string          `json:"id"`
	ExternalID         string          `json:"external_id,omitempty"`
	Store              string          `json:"store,omitempty"`
	SubmitTime         string          `json:"submit_time,omitempty"`
	Language           string          `json:"language,omitempty"`
	Currency           string          `json:"currency"`
	ShippingAddress    ShippingAddress `json:"shipping_address"`
	LineItems          []LineItem      `json:"line_items"`
	ShippingPrice      decimal.Decimal `json:"shipping_price"`
	ShippingTax        decimal.Decimal `json:"shipping_tax"`
	AdditionalTax      decimal.Decimal `json:"additional_tax"`
	AdditionalDiscount decimal.Decimal `json:"additional_discount"`
	Total              decimal.Decimal `json:"total"`
	BillingAddress     BillingAddress  `json:"billing_address"`
	Status             *Status         `json:"status,omitempty"`
	ShippingMethod     string          `json:"shipping_method,omitempty"`
	PickupPoint        *PickupPoint    `json:"pickup_point,omitempty"`
}

// StatusCode returns the order status code, or an empty code when the
// provider did not report any status
func (o *Order) StatusCode() StatusCode {
	if o.Status == nil {
		return ""
	}
	return o.Status.Code
}

// OverlayStatus replaces the status code, initializing the status with an
// empty message when the order had none
func (o *Order) OverlayStatus(code StatusCode) {
	if o.Status == nil {
		o.Status = &Status{Code: code, Message: ""}
		return
	}
	o.Status.Code = code
}

// HasZeroUnitPrice returns true if at least one line item has a unit price of zero
func (o *Order) HasZeroUnitPrice() bool {
	for _, line := range o.LineItems {
		if line.UnitPrice.IsZero() {
			return true
		}
	}
	return false
}

// Status is the provider status of an order
type Status struct {
	Code    StatusCode `json:"code"`
	Message string     `json:"message"`
}

// LineItem is a provider order line
type LineItem struct {
	Product   string           `json:"product"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	UnitTax   decimal.Decimal  `json:"unit_tax"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

// ShippingAddress is the delivery address of a provider order
type ShippingAddress struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Company   string `json:"company,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2,omitempty"`
	City      string `json:"city"`
	Postal    string `json:"postal,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country"`
}

// BillingAddress is the invoicing address of a provider order
type BillingAddress struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Company   string `json:"company,omitempty"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2,omitempty"`
	City      string `json:"city"`
	Postal    string `json:"postal,omitempty"`
	Country   string `json:"country"`
}

// PickupPoint is a relay point chosen instead of home delivery
type PickupPoint struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name"`
	Postal         string `json:"postal"`
	State          string `json:"state,omitempty"`
	Country        string `json:"country"`
	CarrierService string `json:"carrier_service"`
}

// ---------------------------------------------------------------------------
// OrderCreation
// ---------------------------------------------------------------------------

// OrderCreation is the subset of an order the provider accepts on creation.
// Provider identifiers are assigned by the provider and never sent.
type OrderCreation struct {
	ExternalID      string          `json:"external_id,omitempty"`
	Language        string          `json:"language"`
	Currency        string          `json:"currency"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	LineItems       []LineItem      `json:"line_items"`
	ShippingPrice   decimal.Decimal `json:"shipping_price"`
	ShippingTax     decimal.Decimal `json:"shipping_tax"`
	ShippingMethod  string          `json:"shipping_method,omitempty"`
	BillingAddress  *BillingAddress `json:"billing_address,omitempty"`
	PickupPoint     *PickupPoint    `json:"pickup_point,omitempty"`
}

// ---------------------------------------------------------------------------
// Status update webhook
// ---------------------------------------------------------------------------

// StatusUpdate is the narrow status change pushed by the provider
type StatusUpdate struct {
	ID             string     `json:"id" binding:"required"`
	ExternalID     string     `json:"external_id"`
	Carrier        string     `json:"carrier"`
	Code           StatusCode `json:"code" binding:"required"`
	TrackingNumber string     `json:"tracking_number"`
	TrackingURL    string     `json:"tracking_url"`
}

// StatusUpdateNotification is the envelope of a status update webhook delivery
type StatusUpdateNotification struct {
	UpdateTime  time.Time    `json:"update_time"`
	OrderStatus StatusUpdate `json:"order_status" binding:"required"`
}

// ---------------------------------------------------------------------------
// DateRange
// ---------------------------------------------------------------------------

// DateRange is an inclusive submission time window used to list orders
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// LastMonths returns the window from now minus the given number of months to now
func LastMonths(now time.Time, months int) DateRange {
	now = now.UTC()
	return DateRange{
		From: now.AddDate(0, -months, 0),
		To:   now,
	}
}

package fulfillment

import (
	"strings"

	"golang.org/x/text/currency"
)

// CatalogStatusFor maps a provider status code to a catalog order status.
// The mapping is total and biased toward completed; an empty code maps to
// the empty status, which leaves the catalog status untouched.
func CatalogStatusFor(code StatusCode) OrderStatus {
	if code == "" {
		return ""
	}
	switch code {
	case StatusCodeBackorder,
		StatusCodePending,
		StatusCodeInPreparation,
		StatusCodeHandedOver,
		StatusCodeShipped,
		StatusCodeDelivered,
		StatusCodeReturned:
		return OrderStatusCompleted
	case StatusCodeCancelled:
		return OrderStatusCanceled
	default:
		return OrderStatusCompleted
	}
}

// AddressLabel joins first and last name with a space. When both are empty
// the company name is used instead.
func AddressLabel(firstName, lastName, company string) string {
	names := make([]string, 0, 2)
	if firstName != "" {
		names = append(names, firstName)
	}
	if lastName != "" {
		names = append(names, lastName)
	}
	if len(names) > 0 {
		return strings.Join(names, " ")
	}
	return company
}

// NormalizeCurrency returns the ISO 4217 code in canonical upper case, or the
// input unchanged when it is not a known currency
func NormalizeCurrency(code string) string {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return code
	}
	return unit.String()
}

// StatusTranslator projects provider orders into the catalog order shape and
// catalog order events into provider creation requests. It is stateless apart
// from its configuration and never fails.
type StatusTranslator struct {
	skus         *SKUResolver
	language     string
	trackingName string
	trackingURL  string
}

// NewStatusTranslator creates a translator
func NewStatusTranslator(skus *SKUResolver, cfg SyncConfig) *StatusTranslator {
	return &StatusTranslator{
		skus:         skus,
		language:     cfg.Language,
		trackingName: cfg.TrackingName,
		trackingURL:  strings.TrimRight(cfg.TrackingURL, "/"),
	}
}

// ToCatalogOrder builds the catalog order update for a provider order.
// Lines with a zero quantity are dropped.
func (t *StatusTranslator) ToCatalogOrder(order *Order) CatalogOrder {
	code := order.StatusCode()

	return CatalogOrder{
		SellerOrderID: order.ID,
		ExternalID:    order.ExternalID,
		Status:        CatalogStatusFor(code),
		PaymentStatus: PaymentStatusNotPaid,
		Email:         strings.ToLower(strings.TrimSpace(order.BillingAddress.Email)),
		Items:         t.catalogLines(order.LineItems, code),
		ShippingAddress: &CatalogAddress{
			Label:       AddressLabel(order.ShippingAddress.FirstName, order.ShippingAddress.LastName, order.ShippingAddress.Company),
			Address1:    order.ShippingAddress.Line1,
			Address2:    order.ShippingAddress.Line2,
			PostalCode:  order.ShippingAddress.Postal,
			City:        order.ShippingAddress.City,
			CountryCode: order.ShippingAddress.Country,
			Phone:       order.ShippingAddress.Phone,
		},
		BillingAddress: &CatalogAddress{
			Label:       AddressLabel(order.BillingAddress.FirstName, order.BillingAddress.LastName, order.BillingAddress.Company),
			Address1:    order.BillingAddress.Line1,
			Address2:    order.BillingAddress.Line2,
			PostalCode:  order.BillingAddress.Postal,
			City:        order.BillingAddress.City,
			CountryCode: order.BillingAddress.Country,
		},
		CurrencyCode: order.Currency,
		ShippingMethod: &ShippingMethod{
			Name:  order.ShippingMethod,
			Price: order.ShippingPrice,
		},
		CreationDate:    order.SubmitTime,
		ERPTrackingName: t.trackingName,
		ERPTrackingURL:  t.trackingURL + "/" + order.ID,
	}
}

// ToCatalogOrders builds catalog order updates for a batch of provider orders
func (t *StatusTranslator) ToCatalogOrders(orders []Order) []CatalogOrder {
	result := make([]CatalogOrder, len(orders))
	for i := range orders {
		result[i] = t.ToCatalogOrder(&orders[i])
	}
	return result
}

func (t *StatusTranslator) catalogLines(lines []LineItem, code StatusCode) []CatalogLineItem {
	fulfilled := code.IsFulfilled()
	shipped := code.IsShipped()

	items := make([]CatalogLineItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		item := CatalogLineItem{
			VariantSKU: t.skus.Resolve(line.Product),
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
		}
		if fulfilled {
			qty := line.Quantity
			item.FulfilledQuantity = &qty
		}
		if shipped {
			qty := line.Quantity
			item.ShippedQuantity = &qty
		}
		items = append(items, item)
	}
	return items
}

// ToCreation builds the provider creation request for a catalog order event.
// Line items reference the alternative SKU when present, the catalog SKU otherwise.
func (t *StatusTranslator) ToCreation(event *CatalogOrderEvent) OrderCreation {
	shipping := event.ShippingAddress
	billing := event.BillingAddress

	firstName, lastName := shipping.FirstName, shipping.LastName
	if firstName == "" && lastName == "" {
		firstName = event.CompanyName
	}

	billingCompany := billing.Label
	if billingCompany == "" {
		billingCompany = event.CompanyName
	}

	lines := make([]LineItem, 0, len(event.Items))
	for _, item := range event.Items {
		lines = append(lines, LineItem{
			Product:   item.ProductReference(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			UnitTax:   item.UnitTax,
		})
	}

	return OrderCreation{
		ExternalID: event.ExternalID,
		Language:   t.language,
		Currency:   NormalizeCurrency(event.CurrencyCode),
		ShippingAddress: ShippingAddress{
			FirstName: firstName,
			LastName:  lastName,
			Line1:     shipping.Address1,
			Line2:     shipping.Address2,
			Postal:    shipping.PostalCode,
			City:      shipping.City,
			Country:   shipping.CountryCode,
			Email:     event.Email,
		},
		BillingAddress: &BillingAddress{
			Company: billingCompany,
			Line1:   billing.Address1,
			Line2:   billing.Address2,
			Postal:  billing.PostalCode,
			City:    billing.City,
			Country: billing.CountryCode,
			Email:   event.Email,
		},
		LineItems:      lines,
		ShippingPrice:  event.ShippingPrice,
		ShippingTax:    event.ShippingTax,
		ShippingMethod: event.ShippingMethod,
	}
}

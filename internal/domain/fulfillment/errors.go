package fulfillment

import "errors"

// ---------------------------------------------------------------------------
// Fulfillment Errors
// ---------------------------------------------------------------------------

var (
	// Provider errors
	ErrProviderUnavailable     = errors.New("fulfillment: provider temporarily unavailable")
	ErrProviderRequestFailed   = errors.New("fulfillment: provider request failed")
	ErrProviderInvalidResponse = errors.New("fulfillment: invalid provider response")

	// Catalog errors
	ErrCatalogUnavailable  = errors.New("fulfillment: catalog temporarily unavailable")
	ErrCatalogWriteFailed  = errors.New("fulfillment: catalog write failed")
	ErrCatalogInvalidInput = errors.New("fulfillment: invalid catalog payload")

	// Order errors
	ErrOrderNotFound     = errors.New("fulfillment: order not found")
	ErrOrderCreateFailed = errors.New("fulfillment: order creation failed")

	// Webhook errors
	ErrMissingSignature = errors.New("fulfillment: webhook signature missing")
	ErrInvalidSignature = errors.New("fulfillment: webhook signature mismatch")
	ErrInvalidPayload   = errors.New("fulfillment: invalid payload")

	// Config errors
	ErrInvalidSKUPrefix       = errors.New("fulfillment: sku prefix is required")
	ErrInvalidBatchSize       = errors.New("fulfillment: order batch size must be positive")
	ErrInvalidImportWindow    = errors.New("fulfillment: import window must be positive")
	ErrInvalidZeroPricePolicy = errors.New("fulfillment: invalid zero price policy")
)

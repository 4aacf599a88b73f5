package fulfillment

import (
	"context"
	"iter"
)

// ---------------------------------------------------------------------------
// Provider ports
// ---------------------------------------------------------------------------

// OrderSeq is a lazy sequence of provider orders. Ranging over it fetches
// pages on demand; ranging again restarts from the first page. A transport
// failure is yielded once as a non-nil error and ends the sequence.
type OrderSeq = iter.Seq2[Order, error]

// OrderGateway gives read/create access to provider orders
type OrderGateway interface {
	// ListOrders lists orders submitted in the window, page by page
	ListOrders(ctx context.Context, window DateRange) OrderSeq

	// GetOrder fetches one order by its provider (seller order) id
	GetOrder(ctx context.Context, sellerOrderID string) Result[Order]

	// CreateOrder creates an order on the provider
	CreateOrder(ctx context.Context, req OrderCreation) Result[Order]
}

// ProductGateway gives read access to provider products and stock
type ProductGateway interface {
	// ListProducts lists every product of the merchant, page by page
	ListProducts(ctx context.Context) iter.Seq2[Product, error]

	// ListInventories lists stock levels of every product, page by page
	ListInventories(ctx context.Context) iter.Seq2[Inventory, error]
}

// ---------------------------------------------------------------------------
// Catalog ports
// ---------------------------------------------------------------------------

// CatalogOrderGateway writes orders to the catalog. Write failures are
// returned to the caller, never swallowed.
type CatalogOrderGateway interface {
	// UpsertOrders creates or updates a batch of orders in a single call
	UpsertOrders(ctx context.Context, orders []CatalogOrder) error
}

// CatalogVariantGateway writes variant stock levels to the catalog
type CatalogVariantGateway interface {
	// UpdateVariants overwrites the stock level of a batch of variants in a single call
	UpdateVariants(ctx context.Context, variants []VariantStock) error
}

// ---------------------------------------------------------------------------
// Sequence helpers
// ---------------------------------------------------------------------------

// Collect drains a sequence into a slice. Any error discards the partial
// result and is reported as a transport error.
func Collect[T any](seq iter.Seq2[T, error]) Result[[]T] {
	var items []T
	for item, err := range seq {
		if err != nil {
			return TransportError[[]T](err)
		}
		items = append(items, item)
	}
	return Success(items)
}

// Pages turns a page fetcher into a lazy sequence. fetch receives the page
// token ("" for the first page) and returns the page items and the next
// token; an empty next token ends the sequence.
func Pages[T any](ctx context.Context, fetch func(ctx context.Context, pageToken string) ([]T, string, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		token := ""
		for {
			if err := ctx.Err(); err != nil {
				var zero T
				yield(zero, err)
				return
			}

			items, next, err := fetch(ctx, token)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
			if next == "" {
				return
			}
			token = next
		}
	}
}

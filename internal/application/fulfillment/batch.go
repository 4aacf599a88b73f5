package fulfillment

import (
	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
)

// chunk splits items into consecutive slices of at most size elements,
// preserving order. The last chunk may be shorter.
func chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// partitionZeroPrice splits orders into those whose lines are all priced and
// those with at least one zero unit price
func partitionZeroPrice(orders []fulfillment.Order) (priced, zeroPrice []fulfillment.Order) {
	for _, order := range orders {
		if order.HasZeroUnitPrice() {
			zeroPrice = append(zeroPrice, order)
			continue
		}
		priced = append(priced, order)
	}
	return priced, zeroPrice
}

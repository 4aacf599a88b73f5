package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_IsForwardable(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		expected bool
	}{
		{OrderStatusPending, false},
		{OrderStatusCanceled, false},
		{OrderStatusRejected, false},
		{OrderStatusCompleted, true},
		{OrderStatusArchived, true},
		{OrderStatusRequiresAction, true},
		{OrderStatus(""), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsForwardable())
		})
	}
}

func TestOrderStatus_IsValid(t *testing.T) {
	assert.True(t, OrderStatusCompleted.IsValid())
	assert.False(t, OrderStatus("shipped").IsValid())
}

func TestCatalogOrderEventItem_ProductReference(t *testing.T) {
	assert.Equal(t, "123", CatalogOrderEventItem{SKU: "123"}.ProductReference())
	assert.Equal(t, "ABC-123-x", CatalogOrderEventItem{SKU: "123", AlternativeSKU: "ABC-123-x"}.ProductReference())
}

func TestInventoryUpdateNotification_Snapshot(t *testing.T) {
	n := InventoryUpdateNotification{
		Inventories: []InventoryLevel{
			{Product: "ABC-1-a", Available: 5},
			{Product: "ABC-2-b", Available: 0},
			{Product: "ABC-1-a", Available: 7},
		},
	}

	snapshot := n.Snapshot()

	assert.Equal(t, StockSnapshot{"ABC-1-a": 7, "ABC-2-b": 0}, snapshot)
}

func TestInventory_AvailableOrZero(t *testing.T) {
	qty := 4
	assert.Equal(t, 4, Inventory{Available: &qty}.AvailableOrZero())
	assert.Equal(t, 0, Inventory{}.AvailableOrZero())
}

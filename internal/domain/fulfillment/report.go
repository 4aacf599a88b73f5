package fulfillment

// BatchReport summarizes a bulk import run
type BatchReport struct {
	From             string `json:"from"`
	To               string `json:"to"`
	ListFailed       bool   `json:"list_failed"`
	OrdersListed     int    `json:"orders_listed"`
	ZeroPriceOrders  int    `json:"zero_price_orders"`
	OrdersSkipped    int    `json:"orders_skipped"`
	Batches          int    `json:"batches"`
	FailedBatches    int    `json:"failed_batches"`
	OrdersImported   int    `json:"orders_imported"`
	FailedBatchIndex []int  `json:"failed_batch_index,omitempty"`
}

// Clean reports whether the listing succeeded and every batch was accepted
func (r BatchReport) Clean() bool {
	return !r.ListFailed && r.FailedBatches == 0
}

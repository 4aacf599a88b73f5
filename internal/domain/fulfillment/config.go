package fulfillment

// Default tuning constants. They are batch sizes, not protocol limits.
const (
	DefaultOrderBatchSize     = 10
	DefaultOrderPageSize      = 500
	DefaultInventoryPageSize  = 100
	DefaultImportWindowMonths = 3
	DefaultLanguage           = "fr"
	DefaultTrackingName       = "Bigblue"
	DefaultTrackingURL        = "https://app.bigblue.co/orders"
)

// ZeroPricePolicy decides what a bulk import does with orders that carry at
// least one line with a zero unit price
type ZeroPricePolicy string

const (
	// ZeroPricePolicyImport imports such orders like any other
	ZeroPricePolicyImport ZeroPricePolicy = "import"
	// ZeroPricePolicySkip leaves such orders out of the import
	ZeroPricePolicySkip ZeroPricePolicy = "skip"
)

// IsValid returns true if the policy is known
func (p ZeroPricePolicy) IsValid() bool {
	return p == ZeroPricePolicyImport || p == ZeroPricePolicySkip
}

// SyncConfig holds the business settings of the synchronizers
type SyncConfig struct {
	// SKUPrefix is the merchant prefix embedded in provider product references
	SKUPrefix string
	// OrderBatchSize is the number of orders written per catalog call during imports
	OrderBatchSize int
	// ImportWindowMonths is how far back a full import looks
	ImportWindowMonths int
	// ZeroPricePolicy decides whether orders with free lines are imported
	ZeroPricePolicy ZeroPricePolicy
	// Language is the language code sent with created provider orders
	Language string
	// TrackingName and TrackingURL identify the provider on catalog orders
	TrackingName string
	TrackingURL  string
}

// DefaultSyncConfig returns the default configuration for a merchant prefix
func DefaultSyncConfig(skuPrefix string) SyncConfig {
	return SyncConfig{
		SKUPrefix:          skuPrefix,
		OrderBatchSize:     DefaultOrderBatchSize,
		ImportWindowMonths: DefaultImportWindowMonths,
		ZeroPricePolicy:    ZeroPricePolicyImport,
		Language:           DefaultLanguage,
		TrackingName:       DefaultTrackingName,
		TrackingURL:        DefaultTrackingURL,
	}
}

// Validate validates the configuration
func (c SyncConfig) Validate() error {
	if c.SKUPrefix == "" {
		return ErrInvalidSKUPrefix
	}
	if c.OrderBatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.ImportWindowMonths <= 0 {
		return ErrInvalidImportWindow
	}
	if !c.ZeroPricePolicy.IsValid() {
		return ErrInvalidZeroPricePolicy
	}
	return nil
}

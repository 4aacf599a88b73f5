package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*SyncConfig)
		expected error
	}{
		{"defaults are valid", func(*SyncConfig) {}, nil},
		{"missing prefix", func(c *SyncConfig) { c.SKUPrefix = "" }, ErrInvalidSKUPrefix},
		{"zero batch size", func(c *SyncConfig) { c.OrderBatchSize = 0 }, ErrInvalidBatchSize},
		{"negative window", func(c *SyncConfig) { c.ImportWindowMonths = -1 }, ErrInvalidImportWindow},
		{"unknown policy", func(c *SyncConfig) { c.ZeroPricePolicy = "drop" }, ErrInvalidZeroPricePolicy},
		{"skip policy", func(c *SyncConfig) { c.ZeroPricePolicy = ZeroPricePolicySkip }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSyncConfig("ABC")
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestDefaultSyncConfig(t *testing.T) {
	cfg := DefaultSyncConfig("ABC")

	assert.Equal(t, "ABC", cfg.SKUPrefix)
	assert.Equal(t, 10, cfg.OrderBatchSize)
	assert.Equal(t, 3, cfg.ImportWindowMonths)
	assert.Equal(t, ZeroPricePolicyImport, cfg.ZeroPricePolicy)
	assert.Equal(t, "fr", cfg.Language)
}

package fulfillment

import (
	"regexp"
	"sync"

	"go.uber.org/zap"
)

// ExtractSKU applies the pattern "{prefix}-(digits)-" to a provider product
// reference and returns the captured digits. The boolean is false when the
// pattern does not match, in which case the raw reference is returned.
func ExtractSKU(prefix, productReference string) (string, bool) {
	match := skuPattern(prefix).FindStringSubmatch(productReference)
	if len(match) > 1 && match[1] != "" {
		return match[1], true
	}
	return productReference, false
}

var (
	skuPatternsMu sync.RWMutex
	skuPatterns   = make(map[string]*regexp.Regexp)
)

func skuPattern(prefix string) *regexp.Regexp {
	skuPatternsMu.RLock()
	re, ok := skuPatterns[prefix]
	skuPatternsMu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(regexp.QuoteMeta(prefix) + `-(\d+)-`)

	skuPatternsMu.Lock()
	skuPatterns[prefix] = re
	skuPatternsMu.Unlock()
	return re
}

// SKUResolver maps provider product references to catalog SKUs for one
// merchant prefix. Resolution never fails: unmatched references are logged
// and passed through unchanged.
type SKUResolver struct {
	prefix string
	logger *zap.Logger
}

// NewSKUResolver creates a resolver for the given merchant prefix
func NewSKUResolver(prefix string, logger *zap.Logger) *SKUResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SKUResolver{prefix: prefix, logger: logger}
}

// Prefix returns the merchant prefix
func (r *SKUResolver) Prefix() string {
	return r.prefix
}

// Resolve returns the catalog SKU for a provider product reference
func (r *SKUResolver) Resolve(productReference string) string {
	sku, ok := ExtractSKU(r.prefix, productReference)
	if !ok {
		r.logger.Warn("No SKU extracted from product reference, using complete reference",
			zap.String("prefix", r.prefix),
			zap.String("product_reference", productReference),
		)
	}
	return sku
}

package provider

import (
	"errors"
	"strings"
	"time"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
)

// Config holds configuration for the fulfillment provider API
type Config struct {
	// BaseURL is the provider API root, endpoints are appended as "/ListOrders" etc.
	BaseURL string
	// BearerToken authorizes every request
	BearerToken string
	// Timeout is the HTTP request timeout
	Timeout time.Duration
	// OrderPageSize is the page size used when listing orders
	OrderPageSize int
	// InventoryPageSize is the page size used when listing products and inventories
	InventoryPageSize int
}

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
)

// Errors for provider configuration
var (
	ErrConfigMissingBaseURL     = errors.New("provider: base URL is required")
	ErrConfigMissingBearerToken = errors.New("provider: bearer token is required")
)

// NewConfig creates a new provider configuration with defaults
func NewConfig(baseURL, bearerToken string) *Config {
	return &Config{
		BaseURL:           baseURL,
		BearerToken:       bearerToken,
		Timeout:           DefaultTimeout,
		OrderPageSize:     fulfillment.DefaultOrderPageSize,
		InventoryPageSize: fulfillment.DefaultInventoryPageSize,
	}
}

// Validate validates the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.BearerToken == "" {
		return ErrConfigMissingBearerToken
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.OrderPageSize <= 0 {
		c.OrderPageSize = fulfillment.DefaultOrderPageSize
	}
	if c.InventoryPageSize <= 0 {
		c.InventoryPageSize = fulfillment.DefaultInventoryPageSize
	}
	return nil
}

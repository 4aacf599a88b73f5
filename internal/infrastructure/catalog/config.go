package catalog

import (
	"errors"
	"strings"
	"time"
)

// HeaderAPIKey carries the static catalog API key
const HeaderAPIKey = "X-API-KEY"

// DefaultTimeout is the default HTTP request timeout
const DefaultTimeout = 30 * time.Second

// Config holds configuration for the catalog/ERP integration API
type Config struct {
	// BaseURL is the API root; endpoint paths such as "catalog/orders" are appended to it
	BaseURL string
	// APIKey is sent in the X-API-KEY header
	APIKey string
	// Timeout is the HTTP request timeout
	Timeout time.Duration
}

// Errors for catalog configuration
var (
	ErrConfigMissingBaseURL = errors.New("catalog: base URL is required")
	ErrConfigMissingAPIKey  = errors.New("catalog: API key is required")
)

// Validate validates the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}

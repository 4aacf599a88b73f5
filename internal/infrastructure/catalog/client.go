package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const maxErrorBodySize = 64 * 1024

// Client performs authenticated writes against the catalog API
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption is a functional option for configuring the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates a new catalog API client
func NewClient(config *Config, opts ...ClientOption) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// errorPayload is the error body returned by the catalog API
type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// post sends body as JSON to the path. Successful writes carry no body.
func (c *Client) post(ctx context.Context, path string, body any) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %v", fulfillment.ErrCatalogInvalidInput, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("catalog: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAPIKey, c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", fulfillment.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	message := string(raw)
	var payload errorPayload
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		message = payload.Message
	}

	c.logger.Warn("Catalog write failed",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("message", message),
	)
	return fmt.Errorf("%w: HTTP %d: %s", fulfillment.ErrCatalogWriteFailed, resp.StatusCode, message)
}

package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/erp/fulfillment-sync/internal/infrastructure/provider"
	"github.com/erp/fulfillment-sync/internal/infrastructure/scheduler"
	"github.com/erp/fulfillment-sync/internal/interfaces/http/handler"
	"github.com/erp/fulfillment-sync/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrders struct {
	statusUpdates []fulfillment.StatusUpdate
}

func (s *stubOrders) UpdateOrCreateOrder(context.Context, fulfillment.CatalogOrderEvent) error {
	return nil
}

func (s *stubOrders) ImportOrder(_ context.Context, sellerOrderID string) error {
	if sellerOrderID == "missing" {
		return fulfillment.ErrOrderNotFound
	}
	return nil
}

func (s *stubOrders) UpdateOrderStatus(_ context.Context, update fulfillment.StatusUpdate) error {
	s.statusUpdates = append(s.statusUpdates, update)
	return nil
}

type stubInventory struct{}

func (stubInventory) ApplyStockSnapshot(context.Context, fulfillment.StockSnapshot) error {
	return nil
}

func (stubInventory) SKUMappings(context.Context) (map[string]string, error) {
	return map[string]string{"123": "ABC-123-blue"}, nil
}

func (stubInventory) ProductInventories(context.Context) (map[string]int, error) {
	return map[string]int{"123": 4}, nil
}

type stubImports struct{}

func (stubImports) Run(_ context.Context, trigger scheduler.ImportTrigger) (scheduler.ImportJob, error) {
	return scheduler.ImportJob{ID: uuid.New(), Trigger: trigger, Status: scheduler.ImportJobStatusSuccess}, nil
}

func (stubImports) History(int) []scheduler.ImportJob { return nil }

func (stubImports) Job(uuid.UUID) (scheduler.ImportJob, error) {
	return scheduler.ImportJob{}, scheduler.ErrJobNotFound
}

func (stubImports) InProgress() bool { return false }

func newTestEngine(t *testing.T, cfg EngineConfig) (*gin.Engine, *stubOrders) {
	t.Helper()
	orders := &stubOrders{}
	imports := stubImports{}

	engine, err := NewEngine(cfg, Handlers{
		Webhooks: handler.NewWebhookHandler("secret", orders, stubInventory{}),
		Orders:   handler.NewOrderHandler(orders, imports),
		Products: handler.NewProductHandler(stubInventory{}),
		Sync:     handler.NewSyncHandler(nil, imports),
		Health:   handler.NewHealthHandler(nil, imports, "test"),
	})
	require.NoError(t, err)
	return engine, orders
}

func TestNewEngine_Routes(t *testing.T) {
	engine, _ := newTestEngine(t, EngineConfig{ServiceName: "fulfillment-sync"})

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodPost, "/api/v1/webhooks/order-status", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/webhooks/inventory", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/orders", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/orders/import", http.StatusOK},
		{http.MethodPost, "/api/v1/orders/BB-1/import", http.StatusNoContent},
		{http.MethodPost, "/api/v1/orders/missing/import", http.StatusNotFound},
		{http.MethodGet, "/api/v1/products/sku-mappings", http.StatusOK},
		{http.MethodGet, "/api/v1/products/inventories", http.StatusOK},
		{http.MethodGet, "/api/v1/sync-records", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/sync/jobs", http.StatusOK},
		{http.MethodGet, "/api/v1/sync/jobs/" + uuid.NewString(), http.StatusNotFound},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := perform(engine, tt.method, tt.path)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestNewEngine_SignedWebhook(t *testing.T) {
	engine, orders := newTestEngine(t, EngineConfig{ServiceName: "fulfillment-sync"})
	body := []byte(`{"order_status":{"id":"BB-1","code":"DELIVERED"}}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/order-status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(provider.HeaderSignature, provider.Sign("secret", body))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, orders.statusUpdates, 1)
	assert.Equal(t, fulfillment.StatusCodeDelivered, orders.statusUpdates[0].Code)
}

func TestNewEngine_BodyLimit(t *testing.T) {
	engine, _ := newTestEngine(t, EngineConfig{ServiceName: "fulfillment-sync", MaxBodySize: 32})

	body := `{"order_id":"42","note":"` + strings.Repeat("x", 64) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestNewEngine_InvalidTrustedProxy(t *testing.T) {
	_, err := NewEngine(EngineConfig{TrustedProxies: []string{"not-an-ip"}}, Handlers{})

	assert.Error(t, err)
}

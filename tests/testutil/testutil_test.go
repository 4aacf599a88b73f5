package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/fulfillment-sync/internal/infrastructure/provider"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("job-1"), NewTestUUID("job-1"))
	assert.NotEqual(t, NewTestUUID("job-1"), NewTestUUID("job-2"))
}

func TestContextWithTimeout(t *testing.T) {
	ctx := ContextWithTimeout(t, 10*time.Millisecond)

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("Context should time out")
	}
}

func TestSignedWebhookRequest(t *testing.T) {
	body := []byte(`{"order_status":{"id":"BB-1","code":"SHIPPED"}}`)

	req := SignedWebhookRequest("/api/v1/webhooks/order-status", "s3cret", "OrderStatus", body)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "OrderStatus", req.Header.Get(provider.HeaderEventType))
	assert.NoError(t, provider.VerifySignature("s3cret", body, req.Header.Get(provider.HeaderSignature)))

	got, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestSignedWebhookRequest_NoEventType(t *testing.T) {
	req := SignedWebhookRequest("/hook", "s3cret", "", []byte(`{}`))
	assert.Empty(t, req.Header.Get(provider.HeaderEventType))
}

func TestRequireEventually(t *testing.T) {
	var flag atomic.Bool
	go func() {
		time.Sleep(20 * time.Millisecond)
		flag.Store(true)
	}()

	RequireEventually(t, flag.Load, 500*time.Millisecond, 5*time.Millisecond)
}

func TestAssertNever(t *testing.T) {
	AssertNever(t, func() bool { return false }, 30*time.Millisecond, 10*time.Millisecond)
}

func newEchoEngine() *gin.Engine {
	engine := gin.New()
	engine.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"key": "value"}})
	})
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "ERR_INVALID_JSON", "message": "invalid body"},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": body})
	})
	return engine
}

func TestRunHTTPTestCases(t *testing.T) {
	engine := newEchoEngine()

	RunHTTPTestCases(t, engine, []HTTPTestCase{
		{
			Name:           "get",
			Path:           "/ok",
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   map[string]interface{}{"success": true},
		},
		{
			Name:           "json body",
			Method:         http.MethodPost,
			Path:           "/echo",
			Body:           map[string]string{"order_id": "42"},
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				AssertSuccessResponse(t, w)
				resp := JSONResponseAs[struct {
					Data map[string]string `json:"data"`
				}](t, w)
				assert.Equal(t, "42", resp.Data["order_id"])
			},
		},
		{
			Name:           "raw body",
			Method:         http.MethodPost,
			Path:           "/echo",
			RawBody:        []byte(`{not json`),
			ExpectedStatus: http.StatusBadRequest,
			Validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				AssertErrorResponse(t, w, "ERR_INVALID_JSON")
			},
		},
		{
			Name:           "unknown route",
			Path:           "/missing",
			ExpectedStatus: http.StatusNotFound,
		},
	})
}

func TestJSONResponse(t *testing.T) {
	w := Perform(newEchoEngine(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	resp := JSONResponse(t, w)
	assert.Equal(t, map[string]interface{}{"key": "value"}, resp["data"])
}

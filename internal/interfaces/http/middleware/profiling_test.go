package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func labelsOf(ctx context.Context) map[string]string {
	labels := map[string]string{}
	pprof.ForLabels(ctx, func(key, value string) bool {
		labels[key] = value
		return true
	})
	return labels
}

func TestProfiling(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		enabled  bool
		path     string
		expected map[string]string
	}{
		{
			name:     "labels matched route",
			enabled:  true,
			path:     "/orders/BB-1/import",
			expected: map[string]string{"method": "POST", "route": "/orders/:ref/import"},
		},
		{
			name:     "skips configured paths",
			enabled:  true,
			path:     "/health",
			expected: map[string]string{},
		},
		{
			name:     "disabled",
			enabled:  false,
			path:     "/orders/BB-1/import",
			expected: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var labels map[string]string
			handler := func(c *gin.Context) {
				labels = labelsOf(c.Request.Context())
				c.Status(http.StatusNoContent)
			}

			router := gin.New()
			router.Use(Profiling(tt.enabled, "/health"))
			router.POST("/orders/:ref/import", handler)
			router.POST("/health", handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, tt.expected, labels)
		})
	}
}

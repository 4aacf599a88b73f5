package middleware

import (
	"context"
	"slices"

	"github.com/erp/fulfillment-sync/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling tags each request with method and route pprof labels so that
// continuous profiles can be filtered per endpoint. Paths in skipPaths are
// left unlabeled.
func Profiling(enabled bool, skipPaths ...string) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if slices.Contains(skipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		labels := map[string]string{
			telemetry.ProfilingLabelMethod: c.Request.Method,
			telemetry.ProfilingLabelRoute:  c.FullPath(),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

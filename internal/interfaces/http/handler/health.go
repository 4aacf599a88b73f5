package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/erp/fulfillment-sync/internal/infrastructure/logger"
	"github.com/erp/fulfillment-sync/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DatabaseChecker reports the health of the audit log database
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// ImportStatus reports whether a bulk import is running
type ImportStatus interface {
	InProgress() bool
}

// HealthHandler answers liveness checks
type HealthHandler struct {
	db        DatabaseChecker
	imports   ImportStatus
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the
// service runs without a database.
func NewHealthHandler(db DatabaseChecker, imports ImportStatus, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		imports:   imports,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string                       `json:"status"`
	Version       string                       `json:"version"`
	Uptime        string                       `json:"uptime"`
	Time          string                       `json:"time"`
	Database      string                       `json:"database"`
	DatabaseStats *persistence.ConnectionStats `json:"database_stats,omitempty"`
	ImportRunning bool                         `json:"import_running"`
}

// Health godoc
//
//	@Summary	Health check
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "healthy",
		Version:  h.version,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		Time:     time.Now().Format(time.RFC3339),
		Database: "disabled",
	}
	if h.imports != nil {
		resp.ImportRunning = h.imports.InProgress()
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			logger.FromContext(c.Request.Context()).Warn("Health check failed", zap.Error(err))
			resp.Status = "unhealthy"
			resp.Database = "error"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		resp.Database = "ok"
		if stats, err := h.db.Stats(); err == nil {
			resp.DatabaseStats = &stats
		}
	}

	c.JSON(http.StatusOK, resp)
}

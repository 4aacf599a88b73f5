package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/erp/fulfillment-sync/internal/infrastructure/scheduler"
	"github.com/gin-gonic/gin"
)

// OrderService forwards catalog orders to the provider and imports provider orders
type OrderService interface {
	UpdateOrCreateOrder(ctx context.Context, event fulfillment.CatalogOrderEvent) error
	ImportOrder(ctx context.Context, sellerOrderID string) error
}

// ImportRunner runs a bulk import under the scheduler overlap guard
type ImportRunner interface {
	Run(ctx context.Context, trigger scheduler.ImportTrigger) (scheduler.ImportJob, error)
}

// OrderHandler handles order synchronization endpoints
type OrderHandler struct {
	BaseHandler
	orders  OrderService
	imports ImportRunner
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders OrderService, imports ImportRunner) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		imports: imports,
	}
}

// UpdateOrCreateOrder godoc
//
//	@Summary	Forward a catalog order change notification to the fulfillment provider
//	@Tags		orders
//	@Accept		json
//	@Param		request	body	fulfillment.CatalogOrderEvent	true	"Order change notification"
//	@Success	204
//	@Failure	400	{object}	dto.Response
//	@Failure	502	{object}	dto.Response
//	@Router		/orders [post]
func (h *OrderHandler) UpdateOrCreateOrder(c *gin.Context) {
	if c.Request.ContentLength == 0 {
		h.BadRequest(c, "Missing request body")
		return
	}

	var event fulfillment.CatalogOrderEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.orders.UpdateOrCreateOrder(c.Request.Context(), event); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ImportOrder godoc
//
//	@Summary	Import one fulfillment provider order into the catalog
//	@Tags		orders
//	@Param		ref	path	string	true	"Provider order id"
//	@Success	204
//	@Failure	404	{object}	dto.Response
//	@Failure	502	{object}	dto.Response
//	@Router		/orders/{ref}/import [post]
func (h *OrderHandler) ImportOrder(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("ref"))
	if ref == "" {
		h.BadRequest(c, "Missing order reference")
		return
	}

	if err := h.orders.ImportOrder(c.Request.Context(), ref); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ImportAllOrders godoc
//
//	@Summary	Run a bulk import of the recent fulfillment provider orders
//	@Tags		orders
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=scheduler.ImportJob}
//	@Failure	409	{object}	dto.Response
//	@Router		/orders/import [post]
func (h *OrderHandler) ImportAllOrders(c *gin.Context) {
	// The import outlives a dropped connection; the job timeout bounds it.
	ctx := context.WithoutCancel(c.Request.Context())

	job, err := h.imports.Run(ctx, scheduler.TriggerManual)
	if err != nil {
		if errors.Is(err, scheduler.ErrImportInProgress) {
			h.Conflict(c, "An order import is already running")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
)

// ProductCatalog exposes the provider products keyed by catalog SKU
type ProductCatalog interface {
	SKUMappings(ctx context.Context) (map[string]string, error)
	ProductInventories(ctx context.Context) (map[string]int, error)
}

// ProductHandler handles provider product endpoints
type ProductHandler struct {
	BaseHandler
	products ProductCatalog
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products ProductCatalog) *ProductHandler {
	return &ProductHandler{products: products}
}

// SKUMappingsResponse maps catalog SKUs to provider product ids
type SKUMappingsResponse struct {
	SKUMappings map[string]string `json:"sku_mappings"`
}

// InventoriesResponse maps catalog SKUs to available quantities
type InventoriesResponse struct {
	Inventories map[string]int `json:"inventories"`
}

// GetSKUMappings godoc
//
//	@Summary	List provider product ids keyed by catalog SKU
//	@Tags		products
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=SKUMappingsResponse}
//	@Failure	502	{object}	dto.Response
//	@Router		/products/sku-mappings [get]
func (h *ProductHandler) GetSKUMappings(c *gin.Context) {
	mappings, err := h.products.SKUMappings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SKUMappingsResponse{SKUMappings: mappings})
}

// GetInventories godoc
//
//	@Summary	List provider stock levels keyed by catalog SKU
//	@Tags		products
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=InventoriesResponse}
//	@Failure	502	{object}	dto.Response
//	@Router		/products/inventories [get]
func (h *ProductHandler) GetInventories(c *gin.Context) {
	inventories, err := h.products.ProductInventories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, InventoriesResponse{Inventories: inventories})
}

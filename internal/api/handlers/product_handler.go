package handlers

import (
	"net/http"
	"strings"

	"github.com/andresuchdata/po-insights/backend-go/internal/analytics"
	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	engine *analytics.Engine
}

func NewProductHandler(engine *analytics.Engine) *ProductHandler {
	return &ProductHandler{engine: engine}
}

// GetTop ranks products by landing_rate (default), value, orders or fill_rate.
func (h *ProductHandler) GetTop(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), analytics.DefaultLimit)

	var products []domain.ProductMetrics
	switch strings.ToLower(c.DefaultQuery("by", "landing_rate")) {
	case "landing_rate":
		products = h.engine.BestProductsByLandingRate(limit)
	case "value":
		products = h.engine.BestProductsByValue(limit)
	case "orders":
		products = h.engine.BestProductsByOrderCount(limit)
	case "fill_rate":
		products = h.engine.BestProductsByFillRate(limit)
	default:
		errorResponse(c, http.StatusBadRequest, "by must be one of landing_rate, value, orders, fill_rate")
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": nonNil(products)})
}

func (h *ProductHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.ProductPerformanceSummary())
}

// Search matches q against product name or SKU.
func (h *ProductHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		errorResponse(c, http.StatusBadRequest, "q parameter is required")
		return
	}

	product, ok := h.engine.ProductDetails(q)
	if !ok {
		errorResponse(c, http.StatusNotFound, "product not found")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetByCategory(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), analytics.DefaultLimit)
	products := h.engine.ProductsByCategory(c.Param("category"), limit)
	c.JSON(http.StatusOK, gin.H{"products": nonNil(products)})
}

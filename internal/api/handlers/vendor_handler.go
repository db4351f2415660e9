package handlers

import (
	"net/http"
	"strings"

	"github.com/andresuchdata/po-insights/backend-go/internal/analytics"
	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	engine *analytics.Engine
}

func NewVendorHandler(engine *analytics.Engine) *VendorHandler {
	return &VendorHandler{engine: engine}
}

// GetTop ranks vendors by value (default), fill_rate or orders.
func (h *VendorHandler) GetTop(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), analytics.DefaultLimit)

	var vendors []domain.VendorMetrics
	switch strings.ToLower(c.DefaultQuery("by", "value")) {
	case "value":
		vendors = h.engine.TopVendorsByValue(limit)
	case "fill_rate":
		vendors = h.engine.TopVendorsByFillRate(limit)
	case "orders":
		vendors = h.engine.TopVendorsByOrderCount(limit)
	default:
		errorResponse(c, http.StatusBadRequest, "by must be one of value, fill_rate, orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": nonNil(vendors)})
}

func (h *VendorHandler) GetUnderperforming(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), analytics.DefaultLimit)
	c.JSON(http.StatusOK, gin.H{"vendors": nonNil(h.engine.UnderperformingVendors(limit))})
}

func (h *VendorHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.VendorPerformanceSummary())
}

// Search returns the first vendor whose name contains q.
func (h *VendorHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		errorResponse(c, http.StatusBadRequest, "q parameter is required")
		return
	}

	vendor, ok := h.engine.VendorDetails(q)
	if !ok {
		errorResponse(c, http.StatusNotFound, "vendor not found")
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) GetCaseStats(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), analytics.DefaultLimit)
	c.JSON(http.StatusOK, gin.H{"vendors": nonNil(h.engine.VendorCaseStats(limit))})
}

// nonNil keeps empty results rendering as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

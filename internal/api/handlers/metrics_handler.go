package handlers

import (
	"net/http"

	"github.com/andresuchdata/po-insights/backend-go/internal/analytics"
	"github.com/andresuchdata/po-insights/backend-go/internal/cache"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type MetricsHandler struct {
	engine    *analytics.Engine
	dashboard cache.DashboardCache
}

func NewMetricsHandler(engine *analytics.Engine, dashboard cache.DashboardCache) *MetricsHandler {
	if dashboard == nil {
		dashboard = cache.NewNoopDashboardCache()
	}
	return &MetricsHandler{engine: engine, dashboard: dashboard}
}

// GetMetrics returns the KPI cards, read through the dashboard cache.
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	ctx := c.Request.Context()

	cached, ok, err := h.dashboard.GetMetrics(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard cache read failed")
	}
	if ok {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, cached)
		return
	}

	metrics := h.engine.AllMetrics()
	if err := h.dashboard.SetMetrics(ctx, &metrics); err != nil {
		log.Warn().Err(err).Msg("dashboard cache write failed")
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, metrics)
}

// GetCaseMetrics returns the case cards, distributions and billing sums.
func (h *MetricsHandler) GetCaseMetrics(c *gin.Context) {
	breakdown := h.engine.CaseBreakdown()

	c.JSON(http.StatusOK, gin.H{
		"sumOfPOCases":              h.engine.SumOfPOCases(),
		"sumOfClosedPOCases":        h.engine.SumOfClosedPOCases(),
		"sumOfGrnCases":             h.engine.SumOfGrnCases(),
		"openPOCount":               h.engine.OpenPOCount(),
		"noOfCases":                 h.engine.NoOfCases(),
		"sumOfPOBillingValue":       h.engine.SumOfPOBillingValue(),
		"sumOfClosedPOBillingValue": h.engine.SumOfClosedPOBillingValue(),
		"sumOfGrnBillValue":         h.engine.SumOfGrnBillValue(),
		"sumOfOpenPOBillingValue":   h.engine.SumOfOpenPOBillingValue(),
		"nonZeroFillRate":           h.engine.NonZeroFillRate(),
		"caseDistribution":          breakdown.Cases,
		"billingData":               breakdown.Billing,
	})
}

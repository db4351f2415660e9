// internal/api/api.go
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/po-insights/backend-go/internal/analytics"
	"github.com/andresuchdata/po-insights/backend-go/internal/api/handlers"
	"github.com/andresuchdata/po-insights/backend-go/internal/api/middleware"
	"github.com/andresuchdata/po-insights/backend-go/internal/cache"
	"github.com/andresuchdata/po-insights/backend-go/internal/importer"
	"github.com/andresuchdata/po-insights/backend-go/internal/insights"
	"github.com/andresuchdata/po-insights/backend-go/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Store     *store.Store
	Engine    *analytics.Engine
	Importer  *importer.Importer
	Assistant *insights.Assistant
	Dashboard cache.DashboardCache
	UploadDir string
}

// NewServices wires the importer and assistant around an existing store
// and engine. A nil dashboard cache falls back to the noop cache.
func NewServices(s *store.Store, engine *analytics.Engine, dashboard cache.DashboardCache, uploadDir string) *Services {
	if dashboard == nil {
		dashboard = cache.NewNoopDashboardCache()
	}
	return &Services{
		Store:     s,
		Engine:    engine,
		Importer:  importer.New(s, importer.WithInvalidator(Invalidator(s, engine, dashboard))),
		Assistant: insights.NewAssistant(engine, s),
		Dashboard: dashboard,
		UploadDir: uploadDir,
	}
}

// Invalidator clears the ranking snapshots, rebuilds the universal PO table
// and drops cached dashboard payloads after the store changes.
func Invalidator(s *store.Store, engine *analytics.Engine, dashboard cache.DashboardCache) importer.Invalidator {
	return func(ctx context.Context) error {
		engine.ClearCaches()
		engine.UpdateUniversalPO(s)
		return dashboard.InvalidateAll(ctx)
	}
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.Engine != nil {
		metricsHandler := handlers.NewMetricsHandler(services.Engine, services.Dashboard)
		apiGroup.GET("/metrics", metricsHandler.GetMetrics)
		apiGroup.GET("/metrics/cases", metricsHandler.GetCaseMetrics)

		vendorHandler := handlers.NewVendorHandler(services.Engine)
		vendorGroup := apiGroup.Group("/vendors")
		{
			vendorGroup.GET("/top", vendorHandler.GetTop)
			vendorGroup.GET("/underperforming", vendorHandler.GetUnderperforming)
			vendorGroup.GET("/summary", vendorHandler.GetSummary)
			vendorGroup.GET("/search", vendorHandler.Search)
			vendorGroup.GET("/cases", vendorHandler.GetCaseStats)
		}

		productHandler := handlers.NewProductHandler(services.Engine)
		productGroup := apiGroup.Group("/products")
		{
			productGroup.GET("/top", productHandler.GetTop)
			productGroup.GET("/summary", productHandler.GetSummary)
			productGroup.GET("/search", productHandler.Search)
			productGroup.GET("/category/:category", productHandler.GetByCategory)
		}

		if services.Store != nil && services.Importer != nil {
			poHandler := handlers.NewPOHandler(services.Store, services.Engine, services.Importer, services.Dashboard, services.UploadDir)
			apiGroup.POST("/upload", poHandler.UploadPO)
			apiGroup.GET("/universal-po", poHandler.GetUniversalPO)
			apiGroup.POST("/universal-po/refresh", poHandler.RefreshUniversalPO)
			apiGroup.POST("/cache/clear", poHandler.ClearCache)
			apiGroup.GET("/cache/state", poHandler.GetCacheState)
		}

		if services.Assistant != nil {
			insightsHandler := handlers.NewInsightsHandler(services.Assistant)
			apiGroup.POST("/insights/prompt", insightsHandler.BuildPrompt)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}

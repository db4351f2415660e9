// backend-go/internal/api/handlers/po_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/andresuchdata/po-insights/backend-go/internal/analytics"
	"github.com/andresuchdata/po-insights/backend-go/internal/cache"
	"github.com/andresuchdata/po-insights/backend-go/internal/domain"
	"github.com/andresuchdata/po-insights/backend-go/internal/importer"
	"github.com/andresuchdata/po-insights/backend-go/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type POHandler struct {
	store     *store.Store
	engine    *analytics.Engine
	importer  *importer.Importer
	dashboard cache.DashboardCache
	uploadDir string
}

func NewPOHandler(s *store.Store, engine *analytics.Engine, imp *importer.Importer, dashboard cache.DashboardCache, uploadDir string) *POHandler {
	if dashboard == nil {
		dashboard = cache.NewNoopDashboardCache()
	}
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	return &POHandler{
		store:     s,
		engine:    engine,
		importer:  imp,
		dashboard: dashboard,
		uploadDir: uploadDir,
	}
}

// UploadPO imports every file in the "files" field as the collection named by "kind".
func (h *POHandler) UploadPO(c *gin.Context) {
	kind, err := importer.ParseKind(c.PostForm("kind"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "kind must be one of po, open_po, landing_rate")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid form data")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		errorResponse(c, http.StatusBadRequest, "no files provided")
		return
	}

	uploaded := make([]domain.UploadedFile, 0, len(files))
	for _, file := range files {
		name := filepath.Base(file.Filename)
		filePath := filepath.Join(h.uploadDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), name))
		if err := c.SaveUploadedFile(file, filePath); err != nil {
			log.Error().Err(err).Str("filename", file.Filename).Msg("failed to save uploaded file")
			continue
		}
		uploaded = append(uploaded, domain.UploadedFile{Filename: name, Path: filePath, Size: file.Size})
	}
	defer func() {
		for _, f := range uploaded {
			_ = os.Remove(f.Path)
		}
	}()

	if len(uploaded) == 0 {
		errorResponse(c, http.StatusBadRequest, "no valid files to process")
		return
	}

	batch := make([]importer.File, 0, len(uploaded))
	for _, f := range uploaded {
		batch = append(batch, importer.File{Kind: kind, Name: f.Filename, Path: f.Path})
	}

	result, err := h.importer.ImportFiles(c.Request.Context(), batch)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, importer.ErrUnsupportedFormat) ||
			errors.Is(err, importer.ErrMissingHeader) ||
			errors.Is(err, importer.ErrMissingColumn) {
			status = http.StatusUnprocessableEntity
		}
		errorResponse(c, status, err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUniversalPO returns the last stored enriched table.
func (h *POHandler) GetUniversalPO(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"universalPO": nonNil(h.store.UniversalPO())})
}

// RefreshUniversalPO recomputes the enriched table and stores it.
func (h *POHandler) RefreshUniversalPO(c *gin.Context) {
	rows := h.engine.UpdateUniversalPO(h.store)
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "universalPO": rows})
}

// ClearCache drops both ranking snapshots and the dashboard payloads.
func (h *POHandler) ClearCache(c *gin.Context) {
	h.engine.ClearCaches()
	if err := h.dashboard.InvalidateAll(c.Request.Context()); err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to invalidate dashboard cache")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "caches cleared", "state": h.engine.CacheStates()})
}

func (h *POHandler) GetCacheState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state":      h.engine.CacheStates(),
		"capturedAt": h.engine.CacheCaptures(),
		"counts":     h.store.Counts(),
	})
}

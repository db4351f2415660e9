package handlers

import (
	"net/http"

	"github.com/andresuchdata/po-insights/backend-go/internal/insights"
	"github.com/gin-gonic/gin"
)

type InsightsHandler struct {
	assistant *insights.Assistant
}

func NewInsightsHandler(assistant *insights.Assistant) *InsightsHandler {
	return &InsightsHandler{assistant: assistant}
}

type promptRequest struct {
	Question string `json:"question" binding:"required"`
}

// BuildPrompt answers with the prompt an assistant model would receive.
func (h *InsightsHandler) BuildPrompt(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "question is required")
		return
	}

	c.JSON(http.StatusOK, h.assistant.BuildPrompt(req.Question))
}

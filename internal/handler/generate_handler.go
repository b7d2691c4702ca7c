package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/namesmith/internal/model"
	"github.com/fleveque/namesmith/internal/service"
	"github.com/fleveque/namesmith/internal/ui"
)

// GenerateHandler is the JSON counterpart of the studio form: it runs a batch
// synchronously and returns the results in the response body.
type GenerateHandler struct {
	runner  ui.BatchRunner
	timeout time.Duration
	logger  *zap.Logger
}

// NewGenerateHandler creates a new GenerateHandler. timeout bounds each batch; 0 means none.
func NewGenerateHandler(runner ui.BatchRunner, timeout time.Duration, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{
		runner:  runner,
		timeout: timeout,
		logger:  logger,
	}
}

// GenerateResponse is the success body.
type GenerateResponse struct {
	Results []model.GeneratedResult `json:"results"`
}

// Generate runs one batch.
// Route: POST /api/v1/generate   body: {"industry": "...", "preferences": "..."}
func (h *GenerateHandler) Generate(c *gin.Context) {
	var input model.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	results, err := h.runner.Run(ctx, input)
	if err != nil {
		var genErr *service.AIGenerationError
		if errors.As(err, &genErr) {
			h.logger.Warn("batch failed",
				zap.String("industry", input.Industry),
				zap.Error(err),
			)
		} else {
			h.logger.Error("batch failed unexpectedly",
				zap.String("industry", input.Industry),
				zap.Error(err),
			)
		}
		// Idea generation is the only batch-fatal step, and it is an upstream failure.
		c.JSON(http.StatusBadGateway, gin.H{"error": service.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{Results: results})
}

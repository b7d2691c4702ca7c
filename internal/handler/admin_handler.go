package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/namesmith/internal/storage"
)

const (
	defaultRecentCalls = 20
	maxRecentCalls     = 200
)

// AdminHandler handles administrative endpoints.
type AdminHandler struct {
	callRepo storage.CallRepository
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(callRepo storage.CallRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		callRepo: callRepo,
		logger:   logger,
	}
}

// Stats returns model call counts and the average call duration.
// Route: GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.callRepo.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("computing call stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Calls lists the most recent model calls, newest first.
// Route: GET /api/v1/admin/calls?limit=20
func (h *AdminHandler) Calls(c *gin.Context) {
	limit := defaultRecentCalls
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRecentCalls)
	}

	calls, err := h.callRepo.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("listing recent calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"calls": calls})
}

package handler

import (
	"encoding/base64"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/namesmith/internal/model"
	"github.com/fleveque/namesmith/internal/service"
	"github.com/fleveque/namesmith/internal/ui"
)

// LogoHandler serves the logos of the caller's latest results as downloads.
type LogoHandler struct {
	sessions *ui.SessionStore
	logger   *zap.Logger
}

// NewLogoHandler creates a new LogoHandler.
func NewLogoHandler(sessions *ui.SessionStore, logger *zap.Logger) *LogoHandler {
	return &LogoHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Download sends one result's logo as an attachment.
// Route: GET /results/:index/:format   (format is png or svg; png accepts ?bg=ffffff)
//
// A result whose payload is empty has nothing to download, so it is a 404;
// the page renders those buttons disabled.
func (h *LogoHandler) Download(c *gin.Context) {
	state, ok := currentState(c, h.sessions)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return
	}
	result, ok := state.Result(index)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return
	}

	switch c.Param("format") {
	case "png":
		h.png(c, result)
	case "svg":
		if !result.HasSVG() {
			c.JSON(http.StatusNotFound, gin.H{"error": "no vector logo for this result"})
			return
		}
		attachment(c, model.DownloadFilename(result.Name, "svg"))
		c.Data(http.StatusOK, "image/svg+xml", []byte(result.SVGCode))
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "format must be png or svg"})
	}
}

func (h *LogoHandler) png(c *gin.Context, result model.GeneratedResult) {
	if !result.HasPNG() {
		c.JSON(http.StatusNotFound, gin.H{"error": "no raster logo for this result"})
		return
	}

	data, err := base64.StdEncoding.DecodeString(result.PNGBase64)
	if err != nil {
		h.logger.Error("decoding stored PNG",
			zap.String("name", result.Name),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// Apply background color if requested
	if bgColor := c.Query("bg"); bgColor != "" {
		data, err = service.ApplyBackground(data, bgColor)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid background color: " + err.Error(),
			})
			return
		}
	}

	attachment(c, model.DownloadFilename(result.Name, "png"))
	c.Data(http.StatusOK, "image/png", data)
}

// attachment marks the response as a download. mime.FormatMediaType quotes the
// name and falls back to RFC 2231 encoding for non-ASCII names.
func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Header("Cache-Control", "no-store")
}

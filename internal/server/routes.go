package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fleveque/namesmith/internal/config"
	"github.com/fleveque/namesmith/internal/handler"
	"github.com/fleveque/namesmith/internal/middleware"
)

// RegisterRoutes sets up all HTTP routes on the Gin engine.
// In Go, we pass dependencies explicitly: no DI container, no magic.
// Each handler gets exactly the dependencies it needs.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	studioHandler := handler.NewStudioHandler(deps.Studio, cfg.UI.RefreshSeconds, logger)
	logoHandler := handler.NewLogoHandler(deps.Studio.Sessions(), logger)
	generateHandler := handler.NewGenerateHandler(deps.Runner, cfg.Batch.Timeout, logger)
	adminHandler := handler.NewAdminHandler(deps.CallRepo, logger)

	// Public endpoints (no auth)
	r.GET("/healthz", healthHandler.Healthz)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Studio pages. The session cookie is the only state the browser holds.
	// Submitting starts a full batch, so the form gets its own per-IP bucket;
	// the page itself auto-refreshes while loading and must stay unlimited.
	r.GET("/", studioHandler.Index)
	r.POST("/generate",
		middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		studioHandler.Generate)
	r.GET("/results/:index/:format", logoHandler.Download)

	// CORS middleware applies to the entire API group.
	api := r.Group("/api/v1")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Generation is the expensive call: optional key auth, then per-client limits.
	gen := api.Group("")
	gen.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	gen.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		gen.POST("/generate", generateHandler.Generate)
	}

	// Admin endpoints (separate auth with admin keys)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	{
		admin.GET("/stats", adminHandler.Stats)
		admin.GET("/calls", adminHandler.Calls)
	}
}

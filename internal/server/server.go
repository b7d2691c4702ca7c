// Package server configures the HTTP server and routes.
package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/fleveque/namesmith/internal/config"
	"github.com/fleveque/namesmith/internal/storage"
	"github.com/fleveque/namesmith/internal/ui"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Deps holds the services the routes need. main builds them; tests can swap
// in fakes for any of them.
type Deps struct {
	Studio   *ui.Studio
	Runner   ui.BatchRunner
	CallRepo storage.CallRepository
	Gatherer prometheus.Gatherer
}

// Server wraps the HTTP server and its dependencies.
// In Go, you typically compose a struct with all the pieces your server needs,
// then wire them together in the constructor (New function).
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	logger *zap.Logger
	http   *http.Server
}

// New creates and configures a new Server.
func New(cfg *config.Config, deps Deps, logger *zap.Logger) (*Server, error) {
	// Set Gin mode based on log level
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Recovery middleware catches panics and returns 500 instead of crashing.
	router.Use(gin.Recovery())

	tmpl, err := Templates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	RegisterRoutes(router, cfg, deps, logger)

	s := &Server{
		cfg:    cfg,
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:         cfg.Server.Address(),
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: cfg.Batch.Timeout + 30*time.Second, // the JSON API holds the connection for a whole batch
			IdleTimeout:  60 * time.Second,
		},
	}

	return s, nil
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}

// templateFuncs build data: URLs for the previews. html/template rejects data:
// URLs in plain strings, so they are marked safe here, where we know the content
// is our own base64. The SVG is shown through <img>, which never runs scripts
// embedded in model output.
var templateFuncs = template.FuncMap{
	"pngSrc": func(b64 string) template.URL {
		return template.URL("data:image/png;base64," + b64)
	},
	"svgSrc": func(svg string) template.URL {
		return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg)))
	},
}

// Start begins listening for HTTP requests. This blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("address", s.cfg.Server.Address()))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests to complete.
// context.Context is Go's way of handling cancellation and timeouts: you'll see it everywhere.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.http.Shutdown(ctx)
}

// Router returns the underlying Gin engine (useful for testing).
func (s *Server) Router() *gin.Engine {
	return s.router
}

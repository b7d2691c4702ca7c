package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleveque/namesmith/internal/config"
	"github.com/fleveque/namesmith/internal/handler"
	"github.com/fleveque/namesmith/internal/metrics"
	"github.com/fleveque/namesmith/internal/model"
	"github.com/fleveque/namesmith/internal/storage"
	"github.com/fleveque/namesmith/internal/ui"
)

type stubRunner struct {
	results []model.GeneratedResult
}

func (s stubRunner) Run(context.Context, model.UserInput) ([]model.GeneratedResult, error) {
	return s.results, nil
}

type stubCalls struct {
	storage.CallRepository
}

func (stubCalls) Stats(context.Context) (*storage.CallStats, error) {
	return &storage.CallStats{Total: 7, ByKind: map[model.CallKind]int64{}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Auth:      config.AuthConfig{AdminKeys: []string{"admin-secret"}},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Batch:     config.BatchConfig{IdeaCount: 4, MaxConcurrentIdeas: 1, Timeout: time.Minute},
		UI:        config.UIConfig{SessionTTL: time.Minute, RefreshSeconds: 2},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
		Log:       config.LogConfig{Level: "info"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *ui.Studio) {
	t.Helper()
	runner := stubRunner{results: []model.GeneratedResult{
		{Name: "Blue Fox Coffee", Description: "a fox", PNGBase64: "cG5n", SVGCode: `<svg viewBox="0 0 100 100"></svg>`},
		model.FailedResult(model.NameIdea{Name: "Grind House"}),
	}}
	studio := ui.NewStudio(runner, ui.NewSessionStore(time.Minute), time.Minute, zap.NewNop())

	reg := prometheus.NewRegistry()
	metrics.NewRecorder(reg).IncLogoFailure()

	srv, err := New(cfg, Deps{
		Studio:   studio,
		Runner:   runner,
		CallRepo: stubCalls{},
		Gatherer: reg,
	}, zap.NewNop())
	require.NoError(t, err)
	gin.SetMode(gin.TestMode)
	return srv, studio
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	assert.NotNil(t, tmpl.Lookup("index.html"))
}

func TestServer_Healthz(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())
	w := serve(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"namesmith"`)
}

func TestServer_Metrics(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())
	w := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "namesmith_logo_failures_total 1")
}

func TestServer_StudioRoundTrip(t *testing.T) {
	srv, studio := newTestServer(t, testConfig())

	// Idle page: form only.
	w := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="industry"`)
	assert.Contains(t, body, "required")
	assert.NotContains(t, body, `http-equiv="refresh"`)

	var cookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == handler.SessionCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader("industry=coffee+shop&preferences=earthy"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	w = serve(srv, req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, studio.Wait(ctx))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	body = serve(srv, req).Body.String()
	assert.Contains(t, body, "Blue Fox Coffee")
	assert.Contains(t, body, "data:image/png;base64,cG5n")
	assert.Contains(t, body, "data:image/svg+xml;base64,")
	assert.Contains(t, body, model.FailedLogoDescription)
	assert.Contains(t, body, `href="/results/0/png"`)
	assert.NotContains(t, body, `href="/results/1/png"`, "placeholder download is disabled")

	req = httptest.NewRequest(http.MethodGet, "/results/0/svg", nil)
	req.AddCookie(cookie)
	w = serve(srv, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=Blue_Fox_Coffee_logo.svg", w.Header().Get("Content-Disposition"))
}

func TestServer_APIGenerate(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(`{"industry":"coffee shop"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(srv, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Body.String(), `"results"`)
}

func TestServer_AdminRequiresKey(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.Header.Set("X-API-Key", "admin-secret")
	w = serve(srv, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":7`)
}

func TestServer_StudioSubmitIsRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}
	srv, studio := newTestServer(t, cfg)

	submit := func() int {
		req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader("industry=bakery"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = "203.0.113.7:4000"
		return serve(srv, req).Code
	}

	assert.Equal(t, http.StatusSeeOther, submit())
	assert.Equal(t, http.StatusSeeOther, submit())
	assert.Equal(t, http.StatusTooManyRequests, submit())

	// Polling the page is never limited.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:4000"
	assert.Equal(t, http.StatusOK, serve(srv, req).Code)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, studio.Wait(ctx))
}

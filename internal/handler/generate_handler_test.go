package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleveque/namesmith/internal/model"
	"github.com/fleveque/namesmith/internal/service"
)

func newGenerateRouter(runner *fakeRunner) *gin.Engine {
	h := NewGenerateHandler(runner, time.Minute, zap.NewNop())
	r := gin.New()
	r.POST("/api/v1/generate", h.Generate)
	return r
}

func TestGenerateHandler_Success(t *testing.T) {
	runner := &fakeRunner{results: []model.GeneratedResult{
		{Name: "Loaf Lab", Description: "a loaf", PNGBase64: "cG5n", SVGCode: "<svg/>"},
		model.FailedResult(model.NameIdea{Name: "Crumb & Co"}),
	}}
	r := newGenerateRouter(runner)

	w := do(t, r, http.MethodPost, "/api/v1/generate", `{"industry":"bakery","preferences":"pastel"}`, "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, runner.results, resp.Results)
	assert.Contains(t, w.Body.String(), `"pngBase64":"cG5n"`)
	assert.Contains(t, w.Body.String(), `"svgCode":""`)

	assert.Equal(t, []model.UserInput{{Industry: "bakery", Preferences: "pastel"}}, runner.inputs)
	_, hasDeadline := runner.ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestGenerateHandler_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed JSON", body: `{"industry":`},
		{name: "missing industry", body: `{"preferences":"blue"}`},
		{name: "blank industry", body: `{"industry":"  \t"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			w := do(t, newGenerateRouter(runner), http.MethodPost, "/api/v1/generate", tt.body, "application/json")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, runner.calls())
		})
	}
}

func TestGenerateHandler_BatchFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "no ideas",
			err:     &service.AIGenerationError{Err: service.ErrNoIdeas},
			message: "The AI could not generate any business names. Try a different prompt.",
		},
		{
			name:    "transport",
			err:     &service.AIGenerationError{Err: errors.New("connection refused")},
			message: "The AI service could not be reached. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{err: tt.err}
			w := do(t, newGenerateRouter(runner), http.MethodPost, "/api/v1/generate", `{"industry":"bakery"}`, "application/json")
			assert.Equal(t, http.StatusBadGateway, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

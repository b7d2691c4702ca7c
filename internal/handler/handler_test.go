package handler

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/fleveque/namesmith/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testTemplate stands in for the real page: just enough to assert on.
var testTemplate = template.Must(template.New("index.html").Parse(
	`phase={{.Phase}} notice={{.Notice}} error={{.Error}} results={{len .Results}} industry={{.Form.Industry}}`))

// fakeRunner records inputs and returns a fixed outcome.
type fakeRunner struct {
	mu      sync.Mutex
	inputs  []model.UserInput
	results []model.GeneratedResult
	err     error
	ctx     context.Context
}

func (f *fakeRunner) Run(ctx context.Context, input model.UserInput) ([]model.GeneratedResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	f.ctx = ctx
	return f.results, f.err
}

func (f *fakeRunner) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

func do(t *testing.T, router http.Handler, method, target, body, contentType string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == SessionCookie {
			return ck
		}
	}
	require.FailNow(t, "no session cookie set")
	return nil
}

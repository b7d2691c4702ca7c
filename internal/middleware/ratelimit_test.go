package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// limitedRouter puts RateLimit behind a stand-in for APIKeyAuth that copies
// the X-API-Key header into the context, so tests pick the bucket per request.
func limitedRouter(rps float64, burst int) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if key := c.GetHeader("X-API-Key"); key != "" {
			c.Set(contextKeyAPIKey, key)
		}
		c.Next()
	})
	router.Use(RateLimit(rps, burst))
	router.POST("/generate", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func send(router *gin.Engine, apiKey, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_AllowsBurst(t *testing.T) {
	router := limitedRouter(10, 5) // 10 req/s, burst of 5

	for i := 0; i < 5; i++ {
		if code := send(router, "studio-key", ""); code != http.StatusOK {
			t.Errorf("request %d: expected 200, got %d", i, code)
		}
	}
}

func TestRateLimit_RejectsBeyondBurst(t *testing.T) {
	router := limitedRouter(1, 2) // 1 req/s, burst of 2

	send(router, "studio-key", "")
	send(router, "studio-key", "")

	if code := send(router, "studio-key", ""); code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", code)
	}
}

func TestRateLimit_PerKeyIsolation(t *testing.T) {
	router := limitedRouter(1, 1)

	if code := send(router, "key-a", ""); code != http.StatusOK {
		t.Errorf("key-a first request: expected 200, got %d", code)
	}
	if code := send(router, "key-a", ""); code != http.StatusTooManyRequests {
		t.Errorf("key-a second request: expected 429, got %d", code)
	}
	// Separate bucket.
	if code := send(router, "key-b", ""); code != http.StatusOK {
		t.Errorf("key-b first request: expected 200, got %d", code)
	}
}

func TestRateLimit_FallsBackToClientIP(t *testing.T) {
	router := limitedRouter(1, 1)

	if code := send(router, "", "10.0.0.1:5000"); code != http.StatusOK {
		t.Errorf("first request: expected 200, got %d", code)
	}
	if code := send(router, "", "10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Errorf("same IP again: expected 429, got %d", code)
	}
	if code := send(router, "", "10.0.0.2:5000"); code != http.StatusOK {
		t.Errorf("other IP: expected 200, got %d", code)
	}
	// A keyed caller from an exhausted IP has its own bucket.
	if code := send(router, "studio-key", "10.0.0.1:5002"); code != http.StatusOK {
		t.Errorf("keyed caller: expected 200, got %d", code)
	}
}

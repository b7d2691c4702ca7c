package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS lets a separately hosted front-end call the JSON generation API.
// Browsers block cross-origin requests unless the server opts in with these
// headers; preflight OPTIONS requests are answered with 204 right here and
// never reach a handler.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	origins := newKeySet(allowedOrigins)

	return func(c *gin.Context) {
		// The response varies by Origin, so shared caches must key on it.
		c.Header("Vary", "Origin")

		origin := c.GetHeader("Origin")
		if _, ok := origins[origin]; ok {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "X-API-Key, Content-Type")
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

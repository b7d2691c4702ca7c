// Package middleware contains Gin middleware functions.
// Middleware in Gin is a handler that runs before (or after) your route handler.
// It calls c.Next() to proceed or c.Abort() to stop the chain.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// contextKeyAPIKey is where the authenticated key is stored for downstream
// handlers (the rate limiter buckets on it).
const contextKeyAPIKey = "api_key"

// APIKeyAuth guards the generation API. The key can be provided via the
// X-API-Key header or the api_key query param. With no keys configured the
// API is open and the middleware only passes through.
//
// Go closures: this function returns a function. The returned handler keeps
// access to `allowed` after APIKeyAuth itself has returned.
func APIKeyAuth(validKeys []string) gin.HandlerFunc {
	allowed := newKeySet(validKeys)

	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}
		checkKey(c, allowed, http.StatusUnauthorized, "API key")
	}
}

// AdminKeyAuth guards the admin endpoints. Unlike APIKeyAuth it never opens
// up: an empty key list locks the admin routes entirely. A wrong key is 403
// rather than 401 since the caller did authenticate, just not as an admin.
func AdminKeyAuth(adminKeys []string) gin.HandlerFunc {
	allowed := newKeySet(adminKeys)

	return func(c *gin.Context) {
		checkKey(c, allowed, http.StatusForbidden, "admin API key")
	}
}

// keySet is a set of keys. Go doesn't have a built-in Set type, so we use
// map[string]struct{}: struct{} takes zero bytes of memory.
type keySet map[string]struct{}

func newKeySet(keys []string) keySet {
	set := make(keySet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func requestKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	return c.Query("api_key")
}

// checkKey aborts with 401 when no key is sent and with rejectStatus when the
// key is unknown. label names the key in the error body.
func checkKey(c *gin.Context, allowed keySet, rejectStatus int, label string) {
	key := requestKey(c)
	if key == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + label})
		return
	}
	if _, ok := allowed[key]; !ok {
		c.AbortWithStatusJSON(rejectStatus, gin.H{"error": "invalid " + label})
		return
	}

	// gin.Context doubles as a request-scoped key-value store.
	c.Set(contextKeyAPIKey, key)
	c.Next()
}

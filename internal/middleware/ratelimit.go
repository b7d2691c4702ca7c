package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit returns per-client rate limiting middleware using token buckets.
// A client is its API key when auth middleware ran before this one, otherwise
// its IP address. Generation is expensive upstream, so even anonymous callers
// get a bucket.
//
// Token bucket algorithm: each key gets a bucket that fills at `rps` tokens/sec
// up to `burst` tokens. Each request consumes one token. If the bucket is empty,
// the request is rejected with 429.
//
// sync.Mutex protects the map of limiters from concurrent goroutine access.
// This is one of the few cases where Go uses traditional locks instead of channels,
// a shared map with simple read/write is cleaner with a mutex than a channel.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		client := clientKey(c)

		mu.Lock()
		limiter, exists := limiters[client]
		if !exists {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[client] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

// clientKey identifies the caller for rate limiting.
func clientKey(c *gin.Context) string {
	// c.GetString does the interface{} → string type assertion for us and
	// returns "" when auth middleware did not run or the API is open.
	if apiKey := c.GetString(contextKeyAPIKey); apiKey != "" {
		return "key:" + apiKey
	}
	return "ip:" + c.ClientIP()
}

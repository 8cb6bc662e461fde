package middleware

import (
	"fmt"
	"net/http"

	"github.com/aman-churiwal/book-manager/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimit guards a route with the given policy set. The client budget is
// keyed by origin IP; all policies must admit or the request is rejected
// with 429 and none of the budgets are charged.
func RateLimit(limiter *ratelimit.Limiter, policies ...ratelimit.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		decision := limiter.Check(key, policies)

		// Report the tightest budget (or the exceeded one) in headers
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", decision.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", decision.Reset.Unix()))
		c.Header("X-RateLimit-Policy", decision.Policy)

		if !decision.Allowed {
			retryAfter := int(decision.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"policy":      decision.Policy,
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

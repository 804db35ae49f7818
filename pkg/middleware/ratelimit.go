package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests with 429 once the limiter runs out of tokens.
// The limiter is shared by every route the middleware is attached to.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      true,
				"message":    "Too many render requests",
				"request_id": c.GetString(KeyRequestID),
			})
			return
		}
		c.Next()
	}
}

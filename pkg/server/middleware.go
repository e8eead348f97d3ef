package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestLogger logs incoming requests
func requestLogger() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health"},
	})
}

// throttleMiddleware admits one request per client IP per interval. Rejected
// requests happen before the stream starts, so a plain 429 is still possible.
func throttleMiddleware(interval time.Duration) gin.HandlerFunc {
	if interval <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	seen := gocache.New(interval, 2*interval)

	return func(c *gin.Context) {
		if err := seen.Add(c.ClientIP(), struct{}{}, gocache.DefaultExpiration); err != nil {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

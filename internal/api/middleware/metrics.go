package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/pinta-go/pkg/metrics"
)

// Observe logs and counts every request by its route template.
func Observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()
		metrics.RecordRequest(c.Request.Method, route, status, elapsed)
		log.Printf("[%s] %s %s %d %s", c.GetString("request_id"), c.Request.Method, route, status, elapsed)
	}
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openkpi/kpi-manager-api/internal/logger"
)

// RequestLogger logs one line per request with latency and status.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Infow("request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

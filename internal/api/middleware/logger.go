package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/logging"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/tracing"
)

// RequestLogger logs one line per request. Server errors log at error
// level, client errors at warn and the rest at debug.
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	logger = logger.Named("http")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("clientIp", c.ClientIP()),
		}
		if traceID := tracing.GetTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("traceId", string(traceID)))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("Request rejected", fields...)
		default:
			logger.Debug("Request served", fields...)
		}
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

const (
	// RequestIDHeader carries the correlation id in and out
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key holding the correlation id
	RequestIDKey = "request_id"
)

// RequestID reuses the caller's X-Request-ID or generates one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger writes one entry per request. Routes are logged by template so user
// and order ids land in their own fields; 5xx log as errors, 4xx as warnings
// and health probes only at debug.
func Logger(logger coreport.Logger, timeProvider coreport.TimeProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := timeProvider.Now()

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := map[string]any{
			"method":     c.Request.Method,
			"route":      route,
			"status":     status,
			"latency_ms": timeProvider.Since(start).Std().Milliseconds(),
			"ip":         c.ClientIP(),
			"request_id": c.GetString(RequestIDKey),
		}
		for _, p := range c.Params {
			switch p.Key {
			case "userId", "orderId", "refId":
				fields[p.Key] = p.Value
			}
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.Errors()
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed", fields)
		case status >= http.StatusBadRequest:
			logger.Warn("Request rejected", fields)
		case route == "/health":
			logger.Debug("Health probe", fields)
		default:
			logger.Info("Request processed", fields)
		}
	}
}

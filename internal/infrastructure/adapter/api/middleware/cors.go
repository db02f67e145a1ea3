package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows browser clients from the configured origins. An empty list allows all origins.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cc := cors.DefaultConfig()
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", AdminKeyHeader, RequestIDHeader)
	cc.ExposeHeaders = []string{RequestIDHeader}
	cc.MaxAge = 12 * time.Hour
	if len(allowedOrigins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = allowedOrigins
	}
	return cors.New(cc)
}

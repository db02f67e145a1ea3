package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/dto"
)

// AdminKeyHeader carries the operator key on admin routes
const AdminKeyHeader = "X-Admin-Key"

// AdminAuth rejects requests whose X-Admin-Key does not match key.
// An empty key disables every admin route.
func AdminAuth(key string, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader(AdminKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			logger.Warn("Admin request rejected", map[string]any{
				"path":       c.Request.URL.Path,
				"ip":         c.ClientIP(),
				"request_id": c.GetString(RequestIDKey),
			})
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				domainerr.CodeForbidden, "Admin key required", c.GetString(RequestIDKey)))
			return
		}
		c.Next()
	}
}

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/dto"
)

// ErrorHandler turns a panicking handler into a 500. The ledger state is safe:
// a panic inside a unit of work rolls its transaction back before it gets here.
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Error("Panic recovered in API request", map[string]any{
				"panic":      fmt.Sprint(rec),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
				"user_id":    c.Param("userId"),
				"request_id": c.GetString(RequestIDKey),
				"stack":      string(debug.Stack()),
			})

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
				domainerr.CodeInternalServer,
				http.StatusText(http.StatusInternalServerError),
				c.GetString(RequestIDKey),
			))
		}()

		c.Next()
	}
}

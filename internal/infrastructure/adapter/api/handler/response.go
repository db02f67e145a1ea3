package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/middleware"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// loggable is implemented by the detailed domain errors
type loggable interface {
	LogFields() map[string]any
}

// HTTPStatus maps a domain error code to its HTTP status: 4040 -> 404, 5021 -> 502
func HTTPStatus(err error) int {
	status := domainerr.ErrorCode(err) / 10
	if http.StatusText(status) == "" {
		return http.StatusInternalServerError
	}
	return status
}

// writeError renders err as an ErrorResponse. Client errors expose their
// message; server errors are logged and answered with a generic text.
func writeError(c *gin.Context, logger coreport.Logger, msg string, err error, fields map[string]any) {
	code := domainerr.ErrorCode(err)
	status := HTTPStatus(err)

	if fields == nil {
		fields = map[string]any{}
	}
	var detailed loggable
	if errors.As(err, &detailed) {
		for k, v := range detailed.LogFields() {
			fields[k] = v
		}
	}
	fields["error"] = err.Error()
	fields["error_code"] = code

	message := err.Error()
	if domainerr.IsClientError(err) {
		logger.Warn(msg, fields)
	} else {
		logger.Error(msg, fields)
		if !errors.Is(err, domainerr.ErrProvisioningFailed) {
			message = http.StatusText(status)
		}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message, c.GetString(middleware.RequestIDKey)))
}

// writeBindError answers a request that failed binding or validation
func writeBindError(c *gin.Context, logger coreport.Logger, err error) {
	logger.Warn("Invalid request format", map[string]any{
		"path":  c.FullPath(),
		"error": err.Error(),
	})
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
		domainerr.CodeInvalidRequest,
		"Invalid request format: "+err.Error(),
		c.GetString(middleware.RequestIDKey),
	))
}

// pageLimit reads the optional ?limit= query parameter
func pageLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

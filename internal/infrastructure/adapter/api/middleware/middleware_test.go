package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/logger"
	timeadapter "github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/time"
	coremocks "github.com/amirhossein-jamali/marketplace-ledger/mocks/port/core"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(router, http.MethodGet, "/ping", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = serve(router, http.MethodGet, "/ping", nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = serve(router, http.MethodGet, "/ping", map[string]string{RequestIDHeader: strings.Repeat("x", 200)})
	assert.Len(t, w.Body.String(), 36)
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	log := coremocks.NewMockLogger(t)
	router := gin.New()
	router.Use(RequestID(), Logger(log, timeadapter.NewRealTimeProvider()))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/users/:userId/balance", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/users/:userId/orders/:orderId/cancel", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	log.On("Debug", "Health probe", mock.Anything).Once()
	log.On("Info", "Request processed", mock.MatchedBy(func(f map[string]any) bool {
		return f["route"] == "/users/:userId/balance" && f["userId"] == "user-7"
	})).Once()
	log.On("Warn", "Request rejected", mock.MatchedBy(func(f map[string]any) bool {
		return f["orderId"] == "ord-1" && f["status"] == http.StatusBadRequest
	})).Once()
	log.On("Error", "Request failed", mock.Anything).Once()

	serve(router, http.MethodGet, "/health", nil)
	serve(router, http.MethodGet, "/users/user-7/balance", nil)
	serve(router, http.MethodPost, "/users/user-7/orders/ord-1/cancel", nil)
	serve(router, http.MethodGet, "/boom", nil)
}

func TestAdminAuth(t *testing.T) {
	newRouter := func(key string) *gin.Engine {
		router := gin.New()
		router.Use(AdminAuth(key, logger.NewNoopLogger()))
		router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return router
	}

	assert.Equal(t, http.StatusNoContent, serve(newRouter("s3cret"), http.MethodGet, "/admin",
		map[string]string{AdminKeyHeader: "s3cret"}).Code)
	assert.Equal(t, http.StatusForbidden, serve(newRouter("s3cret"), http.MethodGet, "/admin",
		map[string]string{AdminKeyHeader: "wrong"}).Code)
	assert.Equal(t, http.StatusForbidden, serve(newRouter(""), http.MethodGet, "/admin",
		map[string]string{AdminKeyHeader: ""}).Code)
}

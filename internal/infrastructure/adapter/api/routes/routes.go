package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/middleware"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Health   *handler.HealthHandler
	User     *handler.UserHandler
	Catalog  *handler.CatalogHandler
	Order    *handler.OrderHandler
	Deposit  *handler.DepositHandler
	Callback *handler.CallbackHandler
	Admin    *handler.AdminHandler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers, adminKey string, logger coreport.Logger) {
	dto.RegisterValidators()

	router.GET("/health", h.Health.Health)

	catalog := router.Group("/catalog")
	{
		catalog.GET("/products", h.Catalog.Products)
		catalog.GET("/servers", h.Catalog.ServerPlans)
		catalog.GET("/digital", h.Catalog.DigitalProducts)
	}

	router.POST("/users", h.User.Register)
	users := router.Group("/users/:userId")
	{
		users.GET("/balance", h.User.GetBalance)
		users.GET("/transactions", h.User.History)
		users.GET("/orders", h.User.Orders)
		users.GET("/notifications", h.User.Notifications)
		users.GET("/ledger/audit", h.User.Audit)

		users.POST("/products/:productId/purchase", h.Order.PurchaseProduct)
		users.POST("/servers/purchase", h.Order.PurchaseServer)
		users.POST("/digital/topup", h.Order.DigitalTopup)
		users.POST("/otp/orders", h.Order.CreateOTP)
		users.GET("/otp/orders/:orderId", h.Order.OTPStatus)
		users.POST("/otp/orders/:orderId/cancel", h.Order.CancelOTP)
		users.POST("/orders/:orderId/cancel", h.Order.Cancel)

		users.POST("/deposits", h.Deposit.Create)
		users.GET("/deposits/:refId", h.Deposit.Check)
		users.POST("/deposits/:refId/cancel", h.Deposit.Cancel)
	}

	router.POST("/webhooks/tokopay", h.Deposit.Webhook)
	router.POST("/callbacks/digiflazz", h.Callback.Digiflazz)

	admin := router.Group("/admin", middleware.AdminAuth(adminKey, logger))
	{
		admin.POST("/users/:userId/balance", h.Admin.AdjustBalance)
		admin.DELETE("/users/:userId", h.Admin.DeleteUser)
		admin.POST("/orders/:orderId/status", h.Order.AdminSetStatus)
		admin.POST("/orders/:orderId/cancel", h.Order.AdminCancel)
		admin.PUT("/products/:productId", h.Catalog.SaveProduct)
		admin.PUT("/servers/:planId", h.Catalog.SaveServerPlan)
		admin.POST("/vouchers", h.Catalog.CreateVoucher)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, timeProvider coreport.TimeProvider, allowedOrigins []string) {
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger, timeProvider))
	router.Use(middleware.CORS(allowedOrigins))
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/dto"
)

// OrderHandler handles purchases and order lifecycle requests
type OrderHandler struct {
	orders usecase.OrderUseCase
	logger coreport.Logger
}

// NewOrderHandler creates a new order handler instance
func NewOrderHandler(orders usecase.OrderUseCase, logger coreport.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// PurchaseProduct handles POST /users/:userId/products/:productId/purchase
func (h *OrderHandler) PurchaseProduct(c *gin.Context) {
	var req dto.PurchaseProductRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, h.logger, err)
			return
		}
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	userID, productID := c.Param("userId"), c.Param("productId")
	order, err := h.orders.PurchaseProduct(c.Request.Context(), usecase.ProductPurchaseRequest{
		UserID:      userID,
		ProductID:   productID,
		Quantity:    req.Quantity,
		VoucherCode: req.VoucherCode,
	})
	if err != nil {
		writeError(c, h.logger, "Product purchase failed", err, map[string]any{
			"userId":    userID,
			"productId": productID,
		})
		return
	}
	c.JSON(http.StatusCreated, dto.NewOrderResponse(order))
}

// PurchaseServer handles POST /users/:userId/servers/purchase
func (h *OrderHandler) PurchaseServer(c *gin.Context) {
	var req dto.PurchaseServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	userID := c.Param("userId")
	order, err := h.orders.PurchaseServer(c.Request.Context(), usecase.ServerPurchaseRequest{
		UserID: userID,
		PlanID: req.PlanID,
		Term:   req.Term,
	})
	if err != nil {
		writeError(c, h.logger, "Server purchase failed", err, map[string]any{
			"userId": userID,
			"planId": req.PlanID,
		})
		return
	}
	c.JSON(http.StatusCreated, dto.NewOrderResponse(order))
}

// DigitalTopup handles POST /users/:userId/digital/topup
func (h *OrderHandler) DigitalTopup(c *gin.Context) {
	var req dto.DigitalTopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	userID := c.Param("userId")
	order, err := h.orders.PurchaseDigital(c.Request.Context(), usecase.DigitalPurchaseRequest{
		UserID: userID,
		SKU:    req.SKU,
		Target: req.Target,
	})
	if err != nil {
		writeError(c, h.logger, "Digital top-up failed", err, map[string]any{
			"userId": userID,
			"sku":    req.SKU,
		})
		return
	}
	c.JSON(http.StatusAccepted, dto.NewOrderResponse(order))
}

// CreateOTP handles POST /users/:userId/otp/orders
func (h *OrderHandler) CreateOTP(c *gin.Context) {
	var req dto.OTPOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	userID := c.Param("userId")
	order, err := h.orders.PurchaseOTP(c.Request.Context(), usecase.OTPPurchaseRequest{
		UserID:     userID,
		ServiceID:  req.ServiceID,
		NumberID:   req.NumberID,
		ProviderID: req.ProviderID,
		OperatorID: req.OperatorID,
	})
	if err != nil {
		writeError(c, h.logger, "OTP purchase failed", err, map[string]any{
			"userId":    userID,
			"serviceId": req.ServiceID,
		})
		return
	}
	c.JSON(http.StatusCreated, dto.NewOrderResponse(order))
}

// OTPStatus handles GET /users/:userId/otp/orders/:orderId
func (h *OrderHandler) OTPStatus(c *gin.Context) {
	userID, orderID := c.Param("userId"), c.Param("orderId")
	order, err := h.orders.OTPStatus(c.Request.Context(), userID, orderID)
	if err != nil {
		writeError(c, h.logger, "OTP status check failed", err, map[string]any{"userId": userID, "orderId": orderID})
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// CancelOTP handles POST /users/:userId/otp/orders/:orderId/cancel
func (h *OrderHandler) CancelOTP(c *gin.Context) {
	userID, orderID := c.Param("userId"), c.Param("orderId")
	order, err := h.orders.CancelOTP(c.Request.Context(), userID, orderID)
	if err != nil {
		writeError(c, h.logger, "OTP cancel failed", err, map[string]any{"userId": userID, "orderId": orderID})
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// Cancel handles POST /users/:userId/orders/:orderId/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, orderID := c.Param("userId"), c.Param("orderId")
	order, err := h.orders.Cancel(c.Request.Context(), userID, orderID)
	if err != nil {
		writeError(c, h.logger, "Order cancel failed", err, map[string]any{"userId": userID, "orderId": orderID})
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// AdminCancel handles POST /admin/orders/:orderId/cancel
func (h *OrderHandler) AdminCancel(c *gin.Context) {
	orderID := c.Param("orderId")
	order, err := h.orders.Cancel(c.Request.Context(), "", orderID)
	if err != nil {
		writeError(c, h.logger, "Admin order cancel failed", err, map[string]any{"orderId": orderID})
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// AdminSetStatus handles POST /admin/orders/:orderId/status
func (h *OrderHandler) AdminSetStatus(c *gin.Context) {
	var req dto.OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	status, err := entity.ParseOrderStatus(req.Status)
	if err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	orderID := c.Param("orderId")
	order, err := h.orders.SetStatus(c.Request.Context(), orderID, status)
	if err != nil {
		writeError(c, h.logger, "Admin status change failed", err, map[string]any{
			"orderId": orderID,
			"status":  req.Status,
		})
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

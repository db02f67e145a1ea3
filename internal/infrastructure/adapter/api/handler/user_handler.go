package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/dto"
)

// UserHandler handles account and ledger reads
type UserHandler struct {
	balance       usecase.BalanceUseCase
	orders        usecase.OrderUseCase
	notifications usecase.NotificationUseCase
	logger        coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(
	balance usecase.BalanceUseCase,
	orders usecase.OrderUseCase,
	notifications usecase.NotificationUseCase,
	logger coreport.Logger,
) *UserHandler {
	return &UserHandler{
		balance:       balance,
		orders:        orders,
		notifications: notifications,
		logger:        logger,
	}
}

// Register handles POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	user, err := h.balance.RegisterUser(c.Request.Context(), usecase.RegisterRequest{
		ID:           req.ID,
		Username:     req.Username,
		Email:        req.Email,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		writeError(c, h.logger, "Error registering user", err, map[string]any{"userId": req.ID})
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// GetBalance handles GET /users/:userId/balance
func (h *UserHandler) GetBalance(c *gin.Context) {
	userID := c.Param("userId")
	balance, err := h.balance.GetBalance(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "Error getting user balance", err, map[string]any{"userId": userID})
		return
	}
	c.JSON(http.StatusOK, dto.NewBalanceResponse(userID, balance))
}

// History handles GET /users/:userId/transactions
func (h *UserHandler) History(c *gin.Context) {
	userID := c.Param("userId")
	txns, err := h.balance.History(c.Request.Context(), userID, pageLimit(c))
	if err != nil {
		writeError(c, h.logger, "Error listing transactions", err, map[string]any{"userId": userID})
		return
	}
	c.JSON(http.StatusOK, dto.NewTransactionList(txns))
}

// Orders handles GET /users/:userId/orders
func (h *UserHandler) Orders(c *gin.Context) {
	userID := c.Param("userId")
	orders, err := h.orders.ListOrders(c.Request.Context(), userID, pageLimit(c))
	if err != nil {
		writeError(c, h.logger, "Error listing orders", err, map[string]any{"userId": userID})
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderList(orders))
}

// Notifications handles GET /users/:userId/notifications
func (h *UserHandler) Notifications(c *gin.Context) {
	userID := c.Param("userId")
	items, err := h.notifications.ListNotifications(c.Request.Context(), userID, pageLimit(c))
	if err != nil {
		writeError(c, h.logger, "Error listing notifications", err, map[string]any{"userId": userID})
		return
	}
	c.JSON(http.StatusOK, dto.NewNotificationList(items))
}

// Audit handles GET /users/:userId/ledger/audit
func (h *UserHandler) Audit(c *gin.Context) {
	userID := c.Param("userId")
	audit, err := h.balance.Audit(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "Error auditing ledger", err, map[string]any{"userId": userID})
		return
	}
	if !audit.Consistent {
		h.logger.Warn("Ledger audit mismatch", map[string]any{
			"userId":    userID,
			"balance":   audit.Balance,
			"ledgerSum": audit.LedgerSum,
		})
	}
	c.JSON(http.StatusOK, audit)
}

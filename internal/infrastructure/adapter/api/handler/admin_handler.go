package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/dto"
)

// AdminHandler handles operator ledger edits
type AdminHandler struct {
	balance usecase.BalanceUseCase
	logger  coreport.Logger
}

// NewAdminHandler creates a new admin handler instance
func NewAdminHandler(balance usecase.BalanceUseCase, logger coreport.Logger) *AdminHandler {
	return &AdminHandler{balance: balance, logger: logger}
}

// AdjustBalance handles POST /admin/users/:userId/balance
func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	var req dto.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	userID := c.Param("userId")
	result, err := h.balance.Adjust(c.Request.Context(), userID, usecase.AdjustAction(req.Action), req.Amount)
	if err != nil {
		writeError(c, h.logger, "Balance adjustment failed", err, map[string]any{
			"userId": userID,
			"action": req.Action,
			"amount": req.Amount,
		})
		return
	}

	h.logger.Info("Balance adjusted by admin", map[string]any{
		"userId":  userID,
		"action":  req.Action,
		"amount":  req.Amount,
		"balance": result.Balance,
	})
	c.JSON(http.StatusOK, dto.NewLedgerResponse(result))
}

// DeleteUser handles DELETE /admin/users/:userId
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("userId")
	if err := h.balance.DeleteUser(c.Request.Context(), userID); err != nil {
		writeError(c, h.logger, "User deletion failed", err, map[string]any{"userId": userID})
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	domainerr "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/dto"
)

const maxWebhookBody = 64 << 10

// DepositHandler handles balance top-ups and the payment gateway webhook
type DepositHandler struct {
	deposits usecase.DepositUseCase
	logger   coreport.Logger
}

// NewDepositHandler creates a new deposit handler instance
func NewDepositHandler(deposits usecase.DepositUseCase, logger coreport.Logger) *DepositHandler {
	return &DepositHandler{deposits: deposits, logger: logger}
}

// Create handles POST /users/:userId/deposits
func (h *DepositHandler) Create(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	userID := c.Param("userId")
	result, err := h.deposits.CreateDeposit(c.Request.Context(), userID, req.Amount, req.Method)
	if err != nil {
		writeError(c, h.logger, "Deposit creation failed", err, map[string]any{
			"userId": userID,
			"amount": req.Amount,
			"method": req.Method,
		})
		return
	}
	c.JSON(http.StatusCreated, dto.NewDepositResponse(result))
}

// Check handles GET /users/:userId/deposits/:refId
func (h *DepositHandler) Check(c *gin.Context) {
	var uri dto.DepositURI
	if err := c.ShouldBindUri(&uri); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	txn, err := h.deposits.CheckDeposit(c.Request.Context(), uri.UserID, uri.RefID)
	if err != nil {
		writeError(c, h.logger, "Deposit check failed", err, map[string]any{"userId": uri.UserID, "refId": uri.RefID})
		return
	}
	c.JSON(http.StatusOK, dto.NewTransactionResponse(txn))
}

// Cancel handles POST /users/:userId/deposits/:refId/cancel
func (h *DepositHandler) Cancel(c *gin.Context) {
	var uri dto.DepositURI
	if err := c.ShouldBindUri(&uri); err != nil {
		writeBindError(c, h.logger, err)
		return
	}
	txn, err := h.deposits.CancelDeposit(c.Request.Context(), uri.UserID, uri.RefID)
	if err != nil {
		writeError(c, h.logger, "Deposit cancel failed", err, map[string]any{"userId": uri.UserID, "refId": uri.RefID})
		return
	}
	c.JSON(http.StatusOK, dto.NewTransactionResponse(txn))
}

// Webhook handles POST /webhooks/tokopay. The gateway sends either reff_id or
// ref_id depending on the payment channel.
func (h *DepositHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil || !gjson.ValidBytes(body) {
		writeError(c, h.logger, "Malformed payment webhook", domainerr.ErrInvalidRequest, nil)
		return
	}

	doc := gjson.ParseBytes(body)
	hook := usecase.PaymentWebhook{
		MerchantID: doc.Get("merchant_id").String(),
		RefID:      doc.Get("reff_id").String(),
		Status:     doc.Get("status").String(),
	}
	if hook.RefID == "" {
		hook.RefID = doc.Get("ref_id").String()
	}

	txn, err := h.deposits.HandleWebhook(c.Request.Context(), hook)
	if err != nil {
		writeError(c, h.logger, "Payment webhook rejected", err, map[string]any{
			"refId":  hook.RefID,
			"status": hook.Status,
		})
		return
	}

	h.logger.Info("Payment webhook processed", map[string]any{
		"refId":  txn.RefID,
		"status": string(txn.Status),
	})
	c.JSON(http.StatusOK, gin.H{"status": true})
}

package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/digiflazz"
)

// CallbackVerifier authenticates a raw provider callback body
type CallbackVerifier interface {
	VerifyCallback(body []byte, signature string) bool
}

// CallbackHandler receives asynchronous digital top-up results
type CallbackHandler struct {
	orders   usecase.OrderUseCase
	verifier CallbackVerifier
	logger   coreport.Logger
}

// NewCallbackHandler creates a new callback handler instance
func NewCallbackHandler(orders usecase.OrderUseCase, verifier CallbackVerifier, logger coreport.Logger) *CallbackHandler {
	return &CallbackHandler{orders: orders, verifier: verifier, logger: logger}
}

// Digiflazz handles POST /callbacks/digiflazz
func (h *CallbackHandler) Digiflazz(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		writeError(c, h.logger, "Unreadable digital callback", domainerr.ErrInvalidRequest, nil)
		return
	}
	if !h.verifier.VerifyCallback(body, c.GetHeader(digiflazz.SignatureHeader)) {
		writeError(c, h.logger, "Digital callback signature mismatch", domainerr.ErrInvalidSignature, map[string]any{
			"ip": c.ClientIP(),
		})
		return
	}

	cb, err := digiflazz.ParseCallback(body)
	if err != nil {
		writeError(c, h.logger, "Malformed digital callback", err, nil)
		return
	}

	order, err := h.orders.ReconcileDigital(c.Request.Context(), cb)
	if err != nil {
		writeError(c, h.logger, "Digital callback rejected", err, map[string]any{
			"refId":  cb.RefID,
			"status": cb.Status,
		})
		return
	}

	h.logger.Info("Digital callback processed", map[string]any{
		"refId":   cb.RefID,
		"orderId": order.ID,
		"status":  string(order.Status),
	})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

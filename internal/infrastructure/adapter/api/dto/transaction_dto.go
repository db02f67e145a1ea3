package dto

import (
	"time"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

// TransactionResponse represents a ledger record
type TransactionResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Type          string     `json:"type"`
	Amount        int64      `json:"amount"`
	Status        string     `json:"status"`
	RefID         string     `json:"refId,omitempty"`
	Description   string     `json:"description,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	ProductID     string     `json:"productId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
}

// NewTransactionResponse maps a transaction entity
func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		UserID:        t.UserID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		Status:        string(t.Status),
		RefID:         t.RefID,
		Description:   t.Description,
		PaymentMethod: t.PaymentMethod,
		ProductID:     t.ProductID,
		CreatedAt:     t.CreatedAt,
		ProcessedAt:   t.ProcessedAt,
	}
}

// NewTransactionList maps a history page
func NewTransactionList(txns []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, NewTransactionResponse(t))
	}
	return out
}

// DepositRequest opens a top-up
type DepositRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Method string `json:"method" binding:"required,alphanum,max=16"`
}

// DepositURI identifies a deposit by its reference
type DepositURI struct {
	UserID string `uri:"userId" binding:"required"`
	RefID  string `uri:"refId" binding:"required,refid"`
}

// DepositResponse carries the payment instructions of a new deposit
type DepositResponse struct {
	RefID        string `json:"refId"`
	Amount       int64  `json:"amount"`
	Method       string `json:"method"`
	PayURL       string `json:"payUrl,omitempty"`
	QRLink       string `json:"qrLink,omitempty"`
	QRString     string `json:"qrString,omitempty"`
	TotalPayable int64  `json:"totalPayable"`
	Status       string `json:"status"`
}

// NewDepositResponse maps a deposit result
func NewDepositResponse(r *usecase.DepositResult) DepositResponse {
	return DepositResponse{
		RefID:        r.RefID,
		Amount:       r.Amount,
		Method:       r.Method,
		PayURL:       r.PayURL,
		QRLink:       r.QRLink,
		QRString:     r.QRString,
		TotalPayable: r.TotalPayable,
		Status:       string(r.Status),
	}
}

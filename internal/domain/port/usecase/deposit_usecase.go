package usecase

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

// DepositResult is what the user needs to pay a new deposit
type DepositResult struct {
	RefID        string
	Amount       int64
	Method       string
	PayURL       string
	QRLink       string
	QRString     string
	TotalPayable int64
	Status       entity.TransactionStatus
}

// PaymentWebhook is a gateway status notification
type PaymentWebhook struct {
	MerchantID string
	RefID      string
	Status     string
}

// DepositUseCase reconciles external payments with the ledger
type DepositUseCase interface {
	CreateDeposit(ctx context.Context, userID string, amount int64, method string) (*DepositResult, error)

	// CompleteDeposit credits the deposit with refID exactly once, however often it is called
	CompleteDeposit(ctx context.Context, refID string) (*entity.Transaction, error)

	HandleWebhook(ctx context.Context, hook PaymentWebhook) (*entity.Transaction, error)
	CheckDeposit(ctx context.Context, userID, refID string) (*entity.Transaction, error)
	CancelDeposit(ctx context.Context, userID, refID string) (*entity.Transaction, error)
}

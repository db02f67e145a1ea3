package usecase

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

// LedgerEntry describes one balance movement and the transaction recording it
type LedgerEntry struct {
	UserID        string
	Amount        int64 // always positive; the operation decides the sign
	Type          entity.TransactionType
	Description   string
	RefID         string
	ProductID     string
	PaymentMethod string
}

// LedgerResult is the outcome of a committed balance movement
type LedgerResult struct {
	Transaction *entity.Transaction
	Balance     int64
}

// AdjustAction selects how an admin edits a balance
type AdjustAction string

const (
	AdjustAdd      AdjustAction = "add"
	AdjustSubtract AdjustAction = "subtract"
	AdjustSet      AdjustAction = "set"
)

// RegisterRequest creates a marketplace account
type RegisterRequest struct {
	ID           string
	Username     string
	Email        string
	ReferralCode string
}

// BalanceUseCase defines the ledger primitives. Every balance change is paired
// with a completed transaction in the same unit of work.
type BalanceUseCase interface {
	// Debit subtracts entry.Amount and appends a completed transaction of -Amount
	//
	// Possible errors:
	// - InsufficientFundsError: If the balance is lower than the amount
	// - ErrUserNotFound: If the user doesn't exist
	Debit(ctx context.Context, entry LedgerEntry) (*LedgerResult, error)

	// Credit adds entry.Amount and appends a completed transaction of +Amount
	Credit(ctx context.Context, entry LedgerEntry) (*LedgerResult, error)

	// Settle completes the pending transaction with refID and applies its amount.
	// applied is false when the transaction was already settled or closed.
	Settle(ctx context.Context, refID string) (txn *entity.Transaction, applied bool, err error)

	// Close moves a pending transaction to failed or cancelled without touching the balance
	Close(ctx context.Context, refID string, status entity.TransactionStatus) (*entity.Transaction, error)

	GetBalance(ctx context.Context, userID string) (int64, error)
	History(ctx context.Context, userID string, limit int) ([]*entity.Transaction, error)
	Adjust(ctx context.Context, userID string, action AdjustAction, amount int64) (*LedgerResult, error)
	Audit(ctx context.Context, userID string) (*entity.LedgerAudit, error)
	RegisterUser(ctx context.Context, req RegisterRequest) (*entity.User, error)

	// DeleteUser removes an account
	//
	// Possible errors:
	// - ErrForbidden: If the user is an admin
	DeleteUser(ctx context.Context, userID string) error
}

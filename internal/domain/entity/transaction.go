package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	tport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

// TransactionType classifies a ledger record
type TransactionType string

const (
	TypePurchase   TransactionType = "purchase"
	TypeDeposit    TransactionType = "deposit"
	TypeRefund     TransactionType = "refund"
	TypeReferral   TransactionType = "referral"
	TypeAdjustment TransactionType = "adjustment"
)

// IsValid reports whether t belongs to the closed set of transaction types
func (t TransactionType) IsValid() bool {
	switch t {
	case TypePurchase, TypeDeposit, TypeRefund, TypeReferral, TypeAdjustment:
		return true
	}
	return false
}

// TransactionStatus defines possible status values for a transaction
type TransactionStatus string

const (
	TxPending    TransactionStatus = "pending"
	TxProcessing TransactionStatus = "processing"
	TxCompleted  TransactionStatus = "completed"
	TxFailed     TransactionStatus = "failed"
	TxCancelled  TransactionStatus = "cancelled"
)

// transactionTransitions is the transaction state machine. Terminal states have no entry.
var transactionTransitions = map[TransactionStatus][]TransactionStatus{
	TxPending:    {TxProcessing, TxCompleted, TxFailed, TxCancelled},
	TxProcessing: {TxCompleted, TxFailed, TxCancelled},
}

// CanTransition reports whether the state machine allows from -> to
func (s TransactionStatus) CanTransition(to TransactionStatus) bool {
	for _, allowed := range transactionTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s TransactionStatus) IsTerminal() bool {
	return len(transactionTransitions[s]) == 0
}

// Transaction is a ledger record. Amount is signed: negative for debits.
// Only completed transactions count towards a balance.
type Transaction struct {
	ID            string
	UserID        string
	Type          TransactionType
	Amount        int64
	Status        TransactionStatus
	RefID         string // external correlation key, unique when set
	Description   string
	PaymentMethod string
	ProductID     string
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

// NewTransaction creates a pending ledger record
func NewTransaction(
	userID string,
	txType TransactionType,
	amount int64,
	refID string,
	description string,
	timeProvider tport.TimeProvider,
) (*Transaction, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", errs.ErrInvalidRequest)
	}
	if !txType.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", errs.ErrInvalidRequest, txType)
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: transaction amount cannot be zero", errs.ErrInvalidAmount)
	}

	return &Transaction{
		ID:          NewID(),
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Status:      TxPending,
		RefID:       refID,
		Description: description,
		CreatedAt:   timeProvider.Now(),
	}, nil
}

// TransitionTo moves the transaction through the state machine
func (t *Transaction) TransitionTo(status TransactionStatus, timeProvider tport.TimeProvider) error {
	if !t.Status.CanTransition(status) {
		return errs.NewTransitionError("transaction", t.ID, string(t.Status), string(status))
	}
	t.Status = status
	if status.IsTerminal() {
		now := timeProvider.Now()
		t.ProcessedAt = &now
	}
	return nil
}

// IsCredit returns true if this transaction increases the balance
func (t *Transaction) IsCredit() bool {
	return t.Amount > 0
}

// CountsTowardsBalance reports whether the amount is reflected in the user's balance
func (t *Transaction) CountsTowardsBalance() bool {
	return t.Status == TxCompleted
}

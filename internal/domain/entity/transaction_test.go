package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coremocks "github.com/amirhossein-jamali/marketplace-ledger/mocks/port/core"
)

func TestNewTransaction(t *testing.T) {
	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.On("Now").Return(fixedTime).Maybe()

	t.Run("Valid transaction creation", func(t *testing.T) {
		tx, err := NewTransaction("u1", TypeDeposit, 50000, "DEP1", "Deposit", mockTime)
		require.NoError(t, err)
		assert.Equal(t, TxPending, tx.Status)
		assert.Equal(t, fixedTime, tx.CreatedAt)
		assert.Nil(t, tx.ProcessedAt)
		assert.True(t, tx.IsCredit())
		assert.False(t, tx.CountsTowardsBalance())
	})

	t.Run("Invalid input", func(t *testing.T) {
		_, err := NewTransaction("", TypeDeposit, 100, "", "", mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
		_, err = NewTransaction("u1", TransactionType("bonus"), 100, "", "", mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
		_, err = NewTransaction("u1", TypePurchase, 0, "", "", mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestTransaction_TransitionTo(t *testing.T) {
	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.On("Now").Return(fixedTime).Maybe()

	testCases := []struct {
		from    TransactionStatus
		to      TransactionStatus
		allowed bool
	}{
		{TxPending, TxCompleted, true},
		{TxPending, TxFailed, true},
		{TxPending, TxCancelled, true},
		{TxProcessing, TxCompleted, true},
		{TxCompleted, TxFailed, false},
		{TxCompleted, TxPending, false},
		{TxFailed, TxCompleted, false},
		{TxCancelled, TxCompleted, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			tx := &Transaction{ID: "t1", Status: tc.from}
			err := tx.TransitionTo(tc.to, mockTime)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, tx.Status)
				assert.Equal(t, tc.to.IsTerminal(), tx.ProcessedAt != nil)
				return
			}
			assert.ErrorIs(t, err, errs.ErrInvalidTransition)
			assert.Equal(t, tc.from, tx.Status)
		})
	}
}

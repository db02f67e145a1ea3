package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coremocks "github.com/amirhossein-jamali/marketplace-ledger/mocks/port/core"
)

func TestOrder_Lifecycle(t *testing.T) {
	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.On("Now").Return(fixedTime).Maybe()

	t.Run("Complete from pending passes through processing", func(t *testing.T) {
		o := NewOrder("u1", "alice", ProductTypeProduct, "p1", "Netflix", 0, 10000, mockTime)
		assert.Equal(t, 1, o.Quantity)
		require.NoError(t, o.Complete(mockTime))
		assert.Equal(t, OrderCompleted, o.Status)
		require.NotNil(t, o.CompletedAt)
	})

	t.Run("Only completed orders expire", func(t *testing.T) {
		o := NewOrder("u1", "alice", ProductTypeServer, "s1", "1GB", 1, 10000, mockTime)
		assert.ErrorIs(t, o.TransitionTo(OrderExpired, mockTime), errs.ErrInvalidTransition)
		require.NoError(t, o.Complete(mockTime))
		require.NoError(t, o.TransitionTo(OrderExpired, mockTime))
		assert.True(t, o.Status.IsFinal())
	})

	t.Run("Cancel records the reason once", func(t *testing.T) {
		o := NewOrder("u1", "alice", ProductTypeDigital, "ml86", "ML 86", 1, 22000, mockTime)
		require.NoError(t, o.Cancel("Gagal", mockTime))
		assert.Equal(t, "Gagal", o.Reason)
		assert.ErrorIs(t, o.Cancel("again", mockTime), errs.ErrInvalidTransition)
		assert.Equal(t, "Gagal", o.Reason)
	})
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus(" Completed ")
	require.NoError(t, err)
	assert.Equal(t, OrderCompleted, s)

	_, err = ParseOrderStatus("shipped")
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
}

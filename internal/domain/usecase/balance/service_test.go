package balance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/memory"
	coremocks "github.com/amirhossein-jamali/marketplace-ledger/mocks/port/core"
)

var fixedTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T, cfg Config) (*Service, *memory.Store) {
	t.Helper()
	clock := coremocks.NewMockTimeProvider(t)
	clock.On("Now").Return(fixedTime).Maybe()

	store := memory.NewStore(clock)
	return NewService(store, clock, logger.NewNoopLogger(), cfg), store
}

// fundUser registers a user and deposits amount so the ledger stays consistent
func fundUser(t *testing.T, svc *Service, id string, amount int64) {
	t.Helper()
	_, err := svc.RegisterUser(context.Background(), usecase.RegisterRequest{ID: id, Username: "user-" + id})
	require.NoError(t, err)
	if amount > 0 {
		_, err = svc.Credit(context.Background(), usecase.LedgerEntry{
			UserID: id, Amount: amount, Type: entity.TypeDeposit, RefID: "SEED" + id,
		})
		require.NoError(t, err)
	}
}

func requireConsistent(t *testing.T, svc *Service, userID string) *entity.LedgerAudit {
	t.Helper()
	audit, err := svc.Audit(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, audit.Consistent, "balance %d != ledger sum %d", audit.Balance, audit.LedgerSum)
	require.GreaterOrEqual(t, audit.Balance, int64(0))
	return audit
}

func TestService_Debit(t *testing.T) {
	ctx := context.Background()

	t.Run("should debit and record a completed purchase", func(t *testing.T) {
		svc, _ := setup(t, Config{})
		fundUser(t, svc, "u1", 10000)

		result, err := svc.Debit(ctx, usecase.LedgerEntry{UserID: "u1", Amount: 4000, Description: "Pembelian"})

		require.NoError(t, err)
		assert.Equal(t, int64(6000), result.Balance)
		assert.Equal(t, int64(-4000), result.Transaction.Amount)
		assert.Equal(t, entity.TypePurchase, result.Transaction.Type)
		assert.Equal(t, entity.TxCompleted, result.Transaction.Status)
		assert.NotNil(t, result.Transaction.ProcessedAt)
		requireConsistent(t, svc, "u1")
	})

	t.Run("should reject insufficient funds without writing anything", func(t *testing.T) {
		svc, _ := setup(t, Config{})
		fundUser(t, svc, "u1", 1000)

		_, err := svc.Debit(ctx, usecase.LedgerEntry{UserID: "u1", Amount: 1500})

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrInsufficientFunds))
		var fe *errs.InsufficientFundsError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, int64(1500), fe.Required)
		assert.Equal(t, int64(1000), fe.Available)

		history, err := svc.History(ctx, "u1", 0)
		require.NoError(t, err)
		assert.Len(t, history, 1)
		balance, err := svc.GetBalance(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), balance)
	})

	t.Run("should reject non-positive amounts", func(t *testing.T) {
		svc, _ := setup(t, Config{})
		fundUser(t, svc, "u1", 1000)

		_, err := svc.Debit(ctx, usecase.LedgerEntry{UserID: "u1", Amount: 0})
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		_, err = svc.Credit(ctx, usecase.LedgerEntry{UserID: "u1", Amount: -5})
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("should fail for unknown users", func(t *testing.T) {
		svc, _ := setup(t, Config{})

		_, err := svc.Credit(ctx, usecase.LedgerEntry{UserID: "ghost", Amount: 100})
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("should reject a reused refId", func(t *testing.T) {
		svc, _ := setup(t, Config{})
		fundUser(t, svc, "u1", 1000)

		_, err := svc.Debit(ctx, usecase.LedgerEntry{UserID: "u1", Amount: 100, RefID: "R1"})
		require.NoError(t, err)
		_, err = svc.Debit(ctx, usecase.LedgerEntry{UserID: "u1", Amount: 100, RefID: "R1"})
		assert.ErrorIs(t, err, errs.ErrDuplicateRefID)

		audit := requireConsistent(t, svc, "u1")
		assert.Equal(t, int64(900), audit.Balance)
	})
}

func TestService_ConcurrentDebits(t *testing.T) {
	svc, _ := setup(t, Config{})
	fundUser(t, svc, "u1", 5000)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  int
	)
	start := make(chan struct{})
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Debit(context.Background(), usecase.LedgerEntry{UserID: "u1", Amount: 5000})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.Is(err, errs.ErrInsufficientFunds) {
				failures++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)
	audit := requireConsistent(t, svc, "u1")
	assert.Equal(t, int64(0), audit.Balance)
}

func TestService_BalanceInvariantUnderLoad(t *testing.T) {
	svc, _ := setup(t, Config{})
	users := []string{"a", "b", "c"}
	for _, id := range users {
		fundUser(t, svc, id, 1000)
	}

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry := usecase.LedgerEntry{UserID: users[i%len(users)], Amount: int64(100 + i*7)}
			if i%3 == 0 {
				_, _ = svc.Credit(context.Background(), entry)
			} else {
				_, _ = svc.Debit(context.Background(), entry)
			}
		}(i)
	}
	wg.Wait()

	for _, id := range users {
		requireConsistent(t, svc, id)
	}
}

func TestService_Settle(t *testing.T) {
	ctx := context.Background()

	createPending := func(t *testing.T, store *memory.Store, userID, refID string, amount int64) {
		t.Helper()
		clock := coremocks.NewMockTimeProvider(t)
		clock.On("Now").Return(fixedTime)
		txn, err := entity.NewTransaction(userID, entity.TypeDeposit, amount, refID, "Deposit", clock)
		require.NoError(t, err)
		require.NoError(t, store.GetTransactionRepository(ctx).Create(ctx, txn))
	}

	t.Run("should credit a pending deposit exactly once", func(t *testing.T) {
		svc, store := setup(t, Config{})
		fundUser(t, svc, "u1", 0)
		createPending(t, store, "u1", "DEP123", 50000)

		var wg sync.WaitGroup
		var mu sync.Mutex
		appliedCount := 0
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				txn, applied, err := svc.Settle(ctx, "DEP123")
				assert.NoError(t, err)
				assert.Equal(t, entity.TxCompleted, txn.Status)
				if applied {
					mu.Lock()
					appliedCount++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, appliedCount)
		audit := requireConsistent(t, svc, "u1")
		assert.Equal(t, int64(50000), audit.Balance)
	})

	t.Run("should not settle a closed transaction", func(t *testing.T) {
		svc, store := setup(t, Config{})
		fundUser(t, svc, "u1", 0)
		createPending(t, store, "u1", "DEP9", 2000)

		txn, err := svc.Close(ctx, "DEP9", entity.TxFailed)
		require.NoError(t, err)
		assert.Equal(t, entity.TxFailed, txn.Status)

		txn, applied, err := svc.Settle(ctx, "DEP9")
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, entity.TxFailed, txn.Status)

		balance, err := svc.GetBalance(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	})

	t.Run("should report unknown refIds", func(t *testing.T) {
		svc, _ := setup(t, Config{})

		_, _, err := svc.Settle(ctx, "NOPE")
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})

	t.Run("should refuse to close a completed transaction", func(t *testing.T) {
		svc, store := setup(t, Config{})
		fundUser(t, svc, "u1", 0)
		createPending(t, store, "u1", "DEP10", 2000)
		_, _, err := svc.Settle(ctx, "DEP10")
		require.NoError(t, err)

		_, err = svc.Close(ctx, "DEP10", entity.TxCancelled)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestService_Adjust(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		action      usecase.AdjustAction
		amount      int64
		wantBalance int64
		wantTxCount int
	}{
		{name: "add", action: usecase.AdjustAdd, amount: 500, wantBalance: 1500, wantTxCount: 2},
		{name: "subtract floors at zero", action: usecase.AdjustSubtract, amount: 5000, wantBalance: 0, wantTxCount: 2},
		{name: "set", action: usecase.AdjustSet, amount: 300, wantBalance: 300, wantTxCount: 2},
		{name: "set to current writes nothing", action: usecase.AdjustSet, amount: 1000, wantBalance: 1000, wantTxCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setup(t, Config{})
			fundUser(t, svc, "u1", 1000)

			result, err := svc.Adjust(ctx, "u1", tt.action, tt.amount)

			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, result.Balance)
			history, err := svc.History(ctx, "u1", 0)
			require.NoError(t, err)
			assert.Len(t, history, tt.wantTxCount)
			if tt.wantTxCount > 1 {
				assert.Equal(t, entity.TypeAdjustment, result.Transaction.Type)
			}
			requireConsistent(t, svc, "u1")
		})
	}

	t.Run("should reject unknown actions", func(t *testing.T) {
		svc, _ := setup(t, Config{})
		fundUser(t, svc, "u1", 1000)

		_, err := svc.Adjust(ctx, "u1", usecase.AdjustAction("multiply"), 2)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})
}

func TestService_RegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("should credit the referrer when a bonus is configured", func(t *testing.T) {
		svc, _ := setup(t, Config{ReferralBonus: 2500})
		referrer, err := svc.RegisterUser(ctx, usecase.RegisterRequest{ID: "r1", Username: "referrer"})
		require.NoError(t, err)
		require.NotEmpty(t, referrer.ReferralCode)

		user, err := svc.RegisterUser(ctx, usecase.RegisterRequest{
			ID: "n1", Username: "newbie", ReferralCode: referrer.ReferralCode,
		})
		require.NoError(t, err)
		assert.Equal(t, "r1", user.ReferredBy)

		audit := requireConsistent(t, svc, "r1")
		assert.Equal(t, int64(2500), audit.Balance)
		history, err := svc.History(ctx, "r1", 10)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, entity.TypeReferral, history[0].Type)
	})

	t.Run("should reject an unknown referral code", func(t *testing.T) {
		svc, _ := setup(t, Config{ReferralBonus: 2500})

		_, err := svc.RegisterUser(ctx, usecase.RegisterRequest{ID: "n1", Username: "newbie", ReferralCode: "NOPE"})
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
		_, err = svc.GetBalance(ctx, "n1")
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("should reject duplicate users", func(t *testing.T) {
		svc, _ := setup(t, Config{})
		_, err := svc.RegisterUser(ctx, usecase.RegisterRequest{ID: "n1", Username: "newbie"})
		require.NoError(t, err)

		_, err = svc.RegisterUser(ctx, usecase.RegisterRequest{ID: "n1", Username: "other"})
		assert.ErrorIs(t, err, errs.ErrDuplicateUser)
	})
}

func TestService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t, Config{})
	fundUser(t, svc, "u1", 0)

	clock := coremocks.NewMockTimeProvider(t)
	clock.On("Now").Return(fixedTime)
	admin, err := entity.NewUser("admin", "admin", "admin@example.com", entity.RoleAdmin, clock)
	require.NoError(t, err)
	require.NoError(t, store.GetUserRepository(ctx).Create(ctx, admin))

	assert.ErrorIs(t, svc.DeleteUser(ctx, "admin"), errs.ErrForbidden)
	assert.NoError(t, svc.DeleteUser(ctx, "u1"))
	assert.ErrorIs(t, svc.DeleteUser(ctx, "u1"), errs.ErrUserNotFound)
}

func TestService_SeedAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, Config{})

	admin, err := svc.SeedAdmin(ctx, "admin-1", "", "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	assert.Equal(t, "admin", admin.Username)

	again, err := svc.SeedAdmin(ctx, "admin-1", "other", "")
	require.NoError(t, err)
	assert.Equal(t, "admin", again.Username)

	assert.ErrorIs(t, svc.DeleteUser(ctx, "admin-1"), errs.ErrForbidden)
	balance, err := svc.GetBalance(ctx, "admin-1")
	require.NoError(t, err)
	assert.Zero(t, balance)
}

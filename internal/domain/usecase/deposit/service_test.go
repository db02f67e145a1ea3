package deposit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/usecase/balance"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/memory"
	timeadapter "github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/time"
	gatewaymocks "github.com/amirhossein-jamali/marketplace-ledger/mocks/port/gateway"
)

type fixture struct {
	svc      *Service
	ledger   *balance.Service
	store    *memory.Store
	gateway  *gatewaymocks.MockPaymentGateway
	notifier *gatewaymocks.MockNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := timeadapter.NewRealTimeProvider()
	log := logger.NewNoopLogger()
	store := memory.NewStore(clock)
	ledger := balance.NewService(store, clock, log, balance.Config{})

	f := &fixture{
		ledger:   ledger,
		store:    store,
		gateway:  gatewaymocks.NewMockPaymentGateway(t),
		notifier: gatewaymocks.NewMockNotifier(t),
	}
	f.notifier.On("NotifyOperator", mock.Anything, mock.Anything).Maybe()
	f.svc = NewService(store, ledger, f.gateway, f.notifier, clock, log, Config{})

	_, err := ledger.RegisterUser(context.Background(), usecase.RegisterRequest{ID: "user-0042", Username: "budi"})
	require.NoError(t, err)
	return f
}

func (f *fixture) pending(t *testing.T, refID string, amount int64) {
	t.Helper()
	ctx := context.Background()
	txn, err := entity.NewTransaction("user-0042", entity.TypeDeposit, amount, refID, "Deposit via QRIS", timeadapter.NewRealTimeProvider())
	require.NoError(t, err)
	txn.PaymentMethod = "QRIS"
	require.NoError(t, f.store.GetTransactionRepository(ctx).Create(ctx, txn))
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	audit, err := f.ledger.Audit(context.Background(), "user-0042")
	require.NoError(t, err)
	require.True(t, audit.Consistent)
	return audit.Balance
}

func TestService_HandleWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("should credit DEP123 once across repeated webhooks", func(t *testing.T) {
		f := newFixture(t)
		f.pending(t, "DEP123", 50000)
		f.gateway.On("VerifyMerchant", "M-1").Return(true)
		f.notifier.On("NotifyUser", mock.Anything, "user-0042", "Deposit berhasil", mock.Anything, entity.SeveritySuccess).Once()

		first, err := f.svc.HandleWebhook(ctx, usecase.PaymentWebhook{MerchantID: "M-1", RefID: "DEP123", Status: "Paid"})
		require.NoError(t, err)
		assert.Equal(t, entity.TxCompleted, first.Status)
		assert.Equal(t, int64(50000), f.balance(t))

		second, err := f.svc.HandleWebhook(ctx, usecase.PaymentWebhook{MerchantID: "M-1", RefID: "DEP123", Status: "Paid"})
		require.NoError(t, err)
		assert.Equal(t, entity.TxCompleted, second.Status)
		assert.Equal(t, first.ProcessedAt, second.ProcessedAt)
		assert.Equal(t, int64(50000), f.balance(t))
	})

	t.Run("should reject foreign merchants", func(t *testing.T) {
		f := newFixture(t)
		f.pending(t, "DEP1", 5000)
		f.gateway.On("VerifyMerchant", "evil").Return(false)

		_, err := f.svc.HandleWebhook(ctx, usecase.PaymentWebhook{MerchantID: "evil", RefID: "DEP1", Status: "Paid"})

		assert.ErrorIs(t, err, errs.ErrInvalidSignature)
		assert.Equal(t, int64(0), f.balance(t))
	})

	t.Run("should never credit a failed deposit", func(t *testing.T) {
		f := newFixture(t)
		f.pending(t, "DEP2", 5000)
		f.gateway.On("VerifyMerchant", "M-1").Return(true)

		txn, err := f.svc.HandleWebhook(ctx, usecase.PaymentWebhook{MerchantID: "M-1", RefID: "DEP2", Status: "Expired"})
		require.NoError(t, err)
		assert.Equal(t, entity.TxFailed, txn.Status)

		txn, err = f.svc.HandleWebhook(ctx, usecase.PaymentWebhook{MerchantID: "M-1", RefID: "DEP2", Status: "Success"})
		require.NoError(t, err)
		assert.Equal(t, entity.TxFailed, txn.Status)
		assert.Equal(t, int64(0), f.balance(t))
	})

	t.Run("should keep a completed deposit when a late failure arrives", func(t *testing.T) {
		f := newFixture(t)
		f.pending(t, "DEP3", 5000)
		f.gateway.On("VerifyMerchant", "M-1").Return(true)
		f.notifier.On("NotifyUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Once()

		_, err := f.svc.HandleWebhook(ctx, usecase.PaymentWebhook{MerchantID: "M-1", RefID: "DEP3", Status: "Paid"})
		require.NoError(t, err)
		txn, err := f.svc.HandleWebhook(ctx, usecase.PaymentWebhook{MerchantID: "M-1", RefID: "DEP3", Status: "Failed"})

		require.NoError(t, err)
		assert.Equal(t, entity.TxCompleted, txn.Status)
		assert.Equal(t, int64(5000), f.balance(t))
	})
}

func TestService_CompleteDeposit_Concurrent(t *testing.T) {
	f := newFixture(t)
	f.pending(t, "DEP777", 25000)
	f.notifier.On("NotifyUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Once()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			txn, err := f.svc.CompleteDeposit(context.Background(), "DEP777")
			assert.NoError(t, err)
			assert.Equal(t, entity.TxCompleted, txn.Status)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(25000), f.balance(t))
}

func TestService_CreateDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("should open a charge and record a pending deposit", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.On("CreateCharge", mock.Anything, mock.MatchedBy(func(req gateway.ChargeRequest) bool {
			return strings.HasPrefix(req.RefID, "DEP") && strings.HasSuffix(req.RefID, "0042") &&
				req.Amount == 20000 && req.Method == "QRIS"
		})).Return(&gateway.Charge{PayURL: "https://pay.example/x", TotalPayable: 20150}, nil).Once()

		result, err := f.svc.CreateDeposit(ctx, "user-0042", 20000, "qris")

		require.NoError(t, err)
		assert.Equal(t, "https://pay.example/x", result.PayURL)
		assert.Equal(t, int64(20150), result.TotalPayable)
		assert.Equal(t, entity.TxPending, result.Status)

		txn, err := f.store.GetTransactionRepository(ctx).GetByRefID(ctx, result.RefID)
		require.NoError(t, err)
		assert.Equal(t, entity.TxPending, txn.Status)
		assert.Equal(t, "QRIS", txn.PaymentMethod)
		assert.Equal(t, int64(0), f.balance(t))
	})

	t.Run("should enforce deposit limits before calling the gateway", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateDeposit(ctx, "user-0042", 999, "QRIS")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		_, err = f.svc.CreateDeposit(ctx, "user-0042", 10_000_001, "QRIS")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		f.gateway.AssertNotCalled(t, "CreateCharge", mock.Anything, mock.Anything)
	})

	t.Run("should write nothing when the gateway fails", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.On("CreateCharge", mock.Anything, mock.Anything).Return(nil, errors.New("bad gateway")).Once()

		_, err := f.svc.CreateDeposit(ctx, "user-0042", 20000, "QRIS")

		assert.ErrorIs(t, err, errs.ErrExternalService)
		history, err := f.ledger.History(ctx, "user-0042", 0)
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}

func TestService_CheckDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("should converge a paid charge through CompleteDeposit", func(t *testing.T) {
		f := newFixture(t)
		f.pending(t, "DEP5", 7000)
		f.gateway.On("GetChargeStatus", mock.Anything, gateway.ChargeRequest{RefID: "DEP5", Amount: 7000, Method: "QRIS"}).
			Return(gateway.ChargePaid, nil).Once()
		f.notifier.On("NotifyUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Once()

		txn, err := f.svc.CheckDeposit(ctx, "user-0042", "DEP5")
		require.NoError(t, err)
		assert.Equal(t, entity.TxCompleted, txn.Status)

		txn, err = f.svc.CheckDeposit(ctx, "user-0042", "DEP5")
		require.NoError(t, err)
		assert.Equal(t, entity.TxCompleted, txn.Status)
		assert.Equal(t, int64(7000), f.balance(t))
	})

	t.Run("should surface gateway timeouts and keep the deposit pending", func(t *testing.T) {
		f := newFixture(t)
		f.pending(t, "DEP6", 7000)
		f.gateway.On("GetChargeStatus", mock.Anything, mock.Anything).Return(gateway.ChargeStatus(""), context.DeadlineExceeded).Once()

		_, err := f.svc.CheckDeposit(ctx, "user-0042", "DEP6")

		assert.ErrorIs(t, err, errs.ErrExternalTimeout)
		txn, err := f.store.GetTransactionRepository(ctx).GetByRefID(ctx, "DEP6")
		require.NoError(t, err)
		assert.Equal(t, entity.TxPending, txn.Status)
	})

	t.Run("should hide deposits of other users", func(t *testing.T) {
		f := newFixture(t)
		f.pending(t, "DEP7", 7000)

		_, err := f.svc.CheckDeposit(ctx, "someone-else", "DEP7")
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})
}

func TestService_CancelDeposit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.pending(t, "DEP8", 7000)

	txn, err := f.svc.CancelDeposit(ctx, "user-0042", "DEP8")
	require.NoError(t, err)
	assert.Equal(t, entity.TxCancelled, txn.Status)

	_, err = f.svc.CancelDeposit(ctx, "user-0042", "DEP8")
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

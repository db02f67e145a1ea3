package deposit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

// Settler is the part of the balance service reconciliation needs
type Settler interface {
	Settle(ctx context.Context, refID string) (*entity.Transaction, bool, error)
	Close(ctx context.Context, refID string, status entity.TransactionStatus) (*entity.Transaction, error)
}

// Config holds deposit limits
type Config struct {
	MinAmount      int64
	MaxAmount      int64
	GatewayTimeout coreport.Duration
}

// Service reconciles payment gateway charges with pending deposit transactions
type Service struct {
	uow          persistence.UnitOfWork
	settler      Settler
	gateway      gateway.PaymentGateway
	notifier     gateway.Notifier
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	cfg          Config
}

// NewService creates a new deposit service
func NewService(
	uow persistence.UnitOfWork,
	settler Settler,
	paymentGateway gateway.PaymentGateway,
	notifier gateway.Notifier,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
) *Service {
	if cfg.MinAmount <= 0 {
		cfg.MinAmount = 1000
	}
	if cfg.MaxAmount <= 0 {
		cfg.MaxAmount = 10_000_000
	}
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = 15 * coreport.Second
	}
	return &Service{
		uow:          uow,
		settler:      settler,
		gateway:      paymentGateway,
		notifier:     notifier,
		timeProvider: timeProvider,
		logger:       logger,
		cfg:          cfg,
	}
}

// depositRefID builds DEP<unix-ms><last 4 of user id>
func (s *Service) depositRefID(userID string) string {
	suffix := userID
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return fmt.Sprintf("DEP%d%s", s.timeProvider.Now().UnixMilli(), strings.ToUpper(suffix))
}

// CreateDeposit opens a gateway charge and records a pending deposit.
// Nothing is written when the gateway refuses or times out.
func (s *Service) CreateDeposit(ctx context.Context, userID string, amount int64, method string) (*usecase.DepositResult, error) {
	if amount < s.cfg.MinAmount || amount > s.cfg.MaxAmount {
		return nil, fmt.Errorf("%w: deposit must be between %s and %s", errs.ErrInvalidAmount,
			entity.FormatRupiah(s.cfg.MinAmount), entity.FormatRupiah(s.cfg.MaxAmount))
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return nil, fmt.Errorf("%w: payment method is required", errs.ErrInvalidRequest)
	}

	user, err := s.uow.GetUserRepository(ctx).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	req := gateway.ChargeRequest{RefID: s.depositRefID(userID), Amount: amount, Method: method}
	callCtx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.GatewayTimeout)
	charge, err := s.gateway.CreateCharge(callCtx, req)
	cancel()
	if err != nil {
		err = errs.NewExternalError("tokopay", "createCharge", err)
		s.logger.Error("Failed to create deposit charge", map[string]any{
			"userId": userID,
			"refId":  req.RefID,
			"amount": amount,
			"error":  err.Error(),
		})
		return nil, err
	}

	txn, err := entity.NewTransaction(userID, entity.TypeDeposit, amount, req.RefID,
		fmt.Sprintf("Deposit via %s", method), s.timeProvider)
	if err != nil {
		return nil, err
	}
	txn.PaymentMethod = method
	if err := s.uow.GetTransactionRepository(ctx).Create(ctx, txn); err != nil {
		return nil, err
	}

	s.logger.Info("Deposit created", map[string]any{
		"userId": userID,
		"refId":  req.RefID,
		"amount": amount,
		"method": method,
	})
	s.notifier.NotifyOperator(ctx, fmt.Sprintf("<b>Deposit baru</b>\nUser: %s\nJumlah: %s\nMetode: %s\nRef: %s",
		user.Username, entity.FormatRupiah(amount), method, req.RefID))

	return &usecase.DepositResult{
		RefID:        req.RefID,
		Amount:       amount,
		Method:       method,
		PayURL:       charge.PayURL,
		QRLink:       charge.QRLink,
		QRString:     charge.QRString,
		TotalPayable: charge.TotalPayable,
		Status:       txn.Status,
	}, nil
}

// CompleteDeposit credits a pending deposit. Every later call, from the webhook
// or the poll, returns the completed transaction without crediting again.
func (s *Service) CompleteDeposit(ctx context.Context, refID string) (*entity.Transaction, error) {
	txn, applied, err := s.settler.Settle(ctx, refID)
	if err != nil {
		return nil, err
	}
	if !applied {
		s.logger.Debug("Deposit already reconciled", map[string]any{
			"refId":  refID,
			"status": txn.Status,
		})
		return txn, nil
	}

	s.notifier.NotifyUser(ctx, txn.UserID, "Deposit berhasil",
		fmt.Sprintf("Deposit %s berhasil ditambahkan ke saldo Anda.", entity.FormatRupiah(txn.Amount)), entity.SeveritySuccess)
	s.notifier.NotifyOperator(ctx, fmt.Sprintf("<b>Deposit sukses</b>\nRef: %s\nJumlah: %s",
		refID, entity.FormatRupiah(txn.Amount)))
	return txn, nil
}

// HandleWebhook applies a gateway notification
func (s *Service) HandleWebhook(ctx context.Context, hook usecase.PaymentWebhook) (*entity.Transaction, error) {
	if !s.gateway.VerifyMerchant(hook.MerchantID) {
		s.logger.Warn("Rejected webhook for foreign merchant", map[string]any{
			"refId":      hook.RefID,
			"merchantId": hook.MerchantID,
		})
		return nil, errs.ErrInvalidSignature
	}

	switch strings.ToLower(strings.TrimSpace(hook.Status)) {
	case "paid", "success":
		return s.CompleteDeposit(ctx, hook.RefID)
	case "failed", "expired":
		return s.fail(ctx, hook.RefID)
	default:
		return s.uow.GetTransactionRepository(ctx).GetByRefID(ctx, hook.RefID)
	}
}

// CheckDeposit is the poll entry point. It asks the gateway only while the deposit is pending.
func (s *Service) CheckDeposit(ctx context.Context, userID, refID string) (*entity.Transaction, error) {
	txn, err := s.ownedDeposit(ctx, userID, refID)
	if err != nil {
		return nil, err
	}
	if txn.Status != entity.TxPending {
		return txn, nil
	}

	callCtx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.GatewayTimeout)
	status, err := s.gateway.GetChargeStatus(callCtx, gateway.ChargeRequest{
		RefID:  txn.RefID,
		Amount: txn.Amount,
		Method: txn.PaymentMethod,
	})
	cancel()
	if err != nil {
		err = errs.NewExternalError("tokopay", "getChargeStatus", err)
		s.logger.Warn("Deposit status check failed", map[string]any{
			"refId": refID,
			"error": err.Error(),
		})
		return nil, err
	}

	switch status {
	case gateway.ChargePaid:
		return s.CompleteDeposit(ctx, refID)
	case gateway.ChargeFailed:
		return s.fail(ctx, refID)
	default:
		return txn, nil
	}
}

// CancelDeposit lets the owner abandon a pending deposit
func (s *Service) CancelDeposit(ctx context.Context, userID, refID string) (*entity.Transaction, error) {
	txn, err := s.ownedDeposit(ctx, userID, refID)
	if err != nil {
		return nil, err
	}
	if txn.Status != entity.TxPending {
		return nil, errs.NewTransitionError("transaction", txn.ID, string(txn.Status), string(entity.TxCancelled))
	}
	return s.settler.Close(ctx, refID, entity.TxCancelled)
}

// fail closes a pending deposit. Deposits already completed stay completed.
func (s *Service) fail(ctx context.Context, refID string) (*entity.Transaction, error) {
	txn, err := s.settler.Close(ctx, refID, entity.TxFailed)
	if errors.Is(err, errs.ErrInvalidTransition) {
		return s.uow.GetTransactionRepository(ctx).GetByRefID(ctx, refID)
	}
	return txn, err
}

func (s *Service) ownedDeposit(ctx context.Context, userID, refID string) (*entity.Transaction, error) {
	txn, err := s.uow.GetTransactionRepository(ctx).GetByRefID(ctx, refID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID || txn.Type != entity.TypeDeposit {
		return nil, errs.ErrTransactionNotFound
	}
	return txn, nil
}

var _ usecase.DepositUseCase = (*Service)(nil)

package order

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

// Ledger is the part of the balance service the workflow needs
type Ledger interface {
	Debit(ctx context.Context, entry usecase.LedgerEntry) (*usecase.LedgerResult, error)
	Credit(ctx context.Context, entry usecase.LedgerEntry) (*usecase.LedgerResult, error)
}

// Catalog is the part of the catalog service the workflow needs
type Catalog interface {
	DigitalProducts(ctx context.Context) ([]entity.DigitalProduct, error)
	InvalidateProducts(ctx context.Context)
}

// Config holds workflow policy
type Config struct {
	// ProviderTimeout bounds every call to an external collaborator
	ProviderTimeout coreport.Duration
	// PanelUserDomain is the email domain of generated panel accounts
	PanelUserDomain string
	// OTPProfitPercent is the markup on provider OTP quotes
	OTPProfitPercent int64
}

// Service implements the order workflow
type Service struct {
	uow          persistence.UnitOfWork
	ledger       Ledger
	catalog      Catalog
	panel        gateway.ProvisioningPanel
	digital      gateway.DigitalGoodsProvider
	otp          gateway.OTPProvider
	notifier     gateway.Notifier
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	cfg          Config
}

// Dependencies groups the collaborators of the workflow
type Dependencies struct {
	UnitOfWork   persistence.UnitOfWork
	Ledger       Ledger
	Catalog      Catalog
	Panel        gateway.ProvisioningPanel
	Digital      gateway.DigitalGoodsProvider
	OTP          gateway.OTPProvider
	Notifier     gateway.Notifier
	TimeProvider coreport.TimeProvider
	Logger       coreport.Logger
}

// NewService creates a new order workflow
func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 30 * coreport.Second
	}
	if cfg.PanelUserDomain == "" {
		cfg.PanelUserDomain = "baeci.market"
	}
	return &Service{
		uow:          deps.UnitOfWork,
		ledger:       deps.Ledger,
		catalog:      deps.Catalog,
		panel:        deps.Panel,
		digital:      deps.Digital,
		otp:          deps.OTP,
		notifier:     deps.Notifier,
		timeProvider: deps.TimeProvider,
		logger:       deps.Logger,
		cfg:          cfg,
	}
}

// withTimeout bounds a collaborator call
func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return s.timeProvider.WithTimeout(ctx, s.cfg.ProviderTimeout)
}

// Cancel cancels an order that is still pending. An empty userID is an admin cancellation.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	reason := "Cancelled by admin"
	if userID != "" {
		reason = "Cancelled by user"
	}

	var order *entity.Order
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.lockOwnedOrder(ctx, userID, orderID)
		if err != nil {
			return err
		}
		if order.Status != entity.OrderPending {
			return errs.NewTransitionError("order", order.ID, string(order.Status), string(entity.OrderCancelled))
		}
		if err := order.Cancel(reason, s.timeProvider); err != nil {
			return err
		}
		return s.uow.GetOrderRepository(ctx).Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled", map[string]any{
		"orderId": orderID,
		"userId":  order.UserID,
		"reason":  reason,
	})
	return order, nil
}

// SetStatus is the admin status override, still bound by the transition table
func (s *Service) SetStatus(ctx context.Context, orderID string, status entity.OrderStatus) (*entity.Order, error) {
	var order *entity.Order
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		orders := s.uow.GetOrderRepository(ctx)
		var err error
		order, err = orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.TransitionTo(status, s.timeProvider); err != nil {
			return err
		}
		return orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated by admin", map[string]any{
		"orderId": orderID,
		"status":  status,
	})
	return order, nil
}

// Expire moves a completed order to expired. It has no ledger effect.
func (s *Service) Expire(ctx context.Context, orderID string) (*entity.Order, bool, error) {
	var (
		order   *entity.Order
		changed bool
	)
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		changed = false
		orders := s.uow.GetOrderRepository(ctx)
		var err error
		order, err = orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != entity.OrderCompleted {
			return nil
		}
		if err := order.TransitionTo(entity.OrderExpired, s.timeProvider); err != nil {
			return err
		}
		changed = true
		return orders.Update(ctx, order)
	})
	if err != nil {
		return nil, false, err
	}
	return order, changed, nil
}

// ListOrders returns the newest orders of a user
func (s *Service) ListOrders(ctx context.Context, userID string, limit int) ([]*entity.Order, error) {
	return s.uow.GetOrderRepository(ctx).ListByUser(ctx, userID, limit)
}

// lockOwnedOrder loads and locks an order, hiding orders of other users
func (s *Service) lockOwnedOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	order, err := s.uow.GetOrderRepository(ctx).GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if userID != "" && order.UserID != userID {
		return nil, errs.ErrOrderNotFound
	}
	return order, nil
}

// getOwnedOrder is lockOwnedOrder without the lock
func (s *Service) getOwnedOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	order, err := s.uow.GetOrderRepository(ctx).GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if userID != "" && order.UserID != userID {
		return nil, errs.ErrOrderNotFound
	}
	return order, nil
}

// loadUser reads the buyer, mapping absence to ErrUserNotFound
func (s *Service) loadUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.uow.GetUserRepository(ctx).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			s.logger.Warn("Order for unknown user", map[string]any{"userId": userID})
		}
		return nil, err
	}
	return user, nil
}

var _ usecase.OrderUseCase = (*Service)(nil)

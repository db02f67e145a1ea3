package expiry

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
)

// LockKey is the resource lock shared by every sweeper instance
const LockKey = "expiry-sweeper"

// Expirer transitions a completed order to expired
type Expirer interface {
	Expire(ctx context.Context, orderID string) (*entity.Order, bool, error)
}

// Config holds sweeper policy
type Config struct {
	// PerOrderTimeout bounds the work on one order, deprovisioning included
	PerOrderTimeout coreport.Duration
	// WarningDays is the window in which users are warned of an upcoming expiry
	WarningDays int
	// Concurrency is the number of orders processed at once
	Concurrency int
	// LockTTL is how long a crashed instance can block the others
	LockTTL time.Duration
	// Owner identifies this instance in the lock table
	Owner string
}

// Report summarizes one sweep
type Report struct {
	Skipped bool
	Scanned int
	Expired int
	Warned  int
	Failed  int
}

// Sweeper expires rented servers and warns users before they expire
type Sweeper struct {
	uow          persistence.UnitOfWork
	expirer      Expirer
	locks        persistence.ResourceLockRepository
	markers      persistence.MarkerRepository
	panel        gateway.ProvisioningPanel
	notifier     gateway.Notifier
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	cfg          Config
}

// NewSweeper creates a new expiry sweeper
func NewSweeper(
	uow persistence.UnitOfWork,
	expirer Expirer,
	locks persistence.ResourceLockRepository,
	markers persistence.MarkerRepository,
	panel gateway.ProvisioningPanel,
	notifier gateway.Notifier,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
) *Sweeper {
	if cfg.PerOrderTimeout <= 0 {
		cfg.PerOrderTimeout = 30 * coreport.Second
	}
	if cfg.WarningDays <= 0 {
		cfg.WarningDays = 3
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}
	if cfg.Owner == "" {
		cfg.Owner = entity.NewID()
	}
	return &Sweeper{
		uow:          uow,
		expirer:      expirer,
		locks:        locks,
		markers:      markers,
		panel:        panel,
		notifier:     notifier,
		timeProvider: timeProvider,
		logger:       logger,
		cfg:          cfg,
	}
}

// Run performs one sweep. Failures on one order never stop the others.
func (s *Sweeper) Run(ctx context.Context) (Report, error) {
	var report Report

	if err := s.locks.AcquireLock(ctx, LockKey, s.cfg.Owner, s.cfg.LockTTL); err != nil {
		if errors.Is(err, errs.ErrLockHeld) {
			s.logger.Info("Expiry sweep skipped, another instance holds the lock", nil)
			report.Skipped = true
			return report, nil
		}
		return report, err
	}
	defer func() {
		if err := s.locks.ReleaseLock(context.WithoutCancel(ctx), LockKey, s.cfg.Owner); err != nil {
			s.logger.Warn("Failed to release sweeper lock", map[string]any{"error": err.Error()})
		}
	}()

	orders, err := s.uow.GetOrderRepository(ctx).ListByTypeAndStatus(ctx, entity.ProductTypeServer, entity.OrderCompleted)
	if err != nil {
		return report, err
	}
	report.Scanned = len(orders)

	var expired, warned, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, order := range orders {
		order := order
		g.Go(func() error {
			orderCtx, cancel := s.timeProvider.WithTimeout(gctx, s.cfg.PerOrderTimeout)
			defer cancel()

			outcome, err := s.processOrder(orderCtx, order)
			if err != nil {
				failed.Add(1)
				s.logger.Error("Expiry processing failed", map[string]any{
					"orderId": order.ID,
					"error":   err.Error(),
				})
				return nil
			}
			switch outcome {
			case outcomeExpired:
				expired.Add(1)
			case outcomeWarned:
				warned.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Expired = int(expired.Load())
	report.Warned = int(warned.Load())
	report.Failed = int(failed.Load())

	s.logger.Info("Expiry sweep finished", map[string]any{
		"scanned": report.Scanned,
		"expired": report.Expired,
		"warned":  report.Warned,
		"failed":  report.Failed,
	})
	return report, nil
}

type outcome int

const (
	outcomeNone outcome = iota
	outcomeExpired
	outcomeWarned
)

func (s *Sweeper) processOrder(ctx context.Context, order *entity.Order) (outcome, error) {
	now := s.timeProvider.Now()
	expiry := order.ServerDetails.ExpiryDate(order.CreatedAt)

	if now.After(expiry) {
		return s.expire(ctx, order)
	}

	days := entity.DaysRemaining(expiry, now)
	if days <= 0 || days > s.cfg.WarningDays {
		return outcomeNone, nil
	}

	first, err := s.markers.MarkOnce(ctx, fmt.Sprintf("expiry-warning:%s:%d", order.ID, days))
	if err != nil {
		return outcomeNone, err
	}
	if !first {
		return outcomeNone, nil
	}

	s.notifier.NotifyUser(ctx, order.UserID, "Server akan berakhir",
		fmt.Sprintf("Server %s akan berakhir dalam %d hari (%s).", order.ProductName, days, expiry.Format("02 Jan 2006")),
		entity.SeverityWarning)
	s.notifier.NotifyOperator(ctx, fmt.Sprintf("<b>Server akan berakhir</b>\nOrder: %s\nUser: %s\nPaket: %s\nSisa: %d hari",
		order.ID, order.Username, order.ProductName, days))
	return outcomeWarned, nil
}

// expire commits the transition first, so only the instance that changed the
// order deprovisions and notifies.
func (s *Sweeper) expire(ctx context.Context, order *entity.Order) (outcome, error) {
	expired, changed, err := s.expirer.Expire(ctx, order.ID)
	if err != nil {
		return outcomeNone, err
	}
	if !changed {
		return outcomeNone, nil
	}

	s.deprovision(ctx, expired)

	s.notifier.NotifyUser(ctx, expired.UserID, "Server berakhir",
		fmt.Sprintf("Masa aktif server %s telah berakhir dan server telah dihapus.", expired.ProductName),
		entity.SeverityDanger)
	s.notifier.NotifyOperator(ctx, fmt.Sprintf("<b>Server expired</b>\nOrder: %s\nUser: %s\nPaket: %s",
		expired.ID, expired.Username, expired.ProductName))

	s.logger.Info("Server order expired", map[string]any{
		"orderId": expired.ID,
		"userId":  expired.UserID,
	})
	return outcomeExpired, nil
}

// deprovision removes the server then the account. Each call is best-effort
// with its own deadline.
func (s *Sweeper) deprovision(ctx context.Context, order *entity.Order) {
	details := order.ServerDetails
	if details == nil {
		return
	}
	if details.PanelResourceID != "" {
		err := s.bestEffort(ctx, func(ctx context.Context) error {
			return s.panel.DeleteResource(ctx, details.PanelResourceID)
		})
		if err != nil {
			s.logger.Error("Failed to delete expired server", map[string]any{
				"orderId":    order.ID,
				"resourceId": details.PanelResourceID,
				"error":      err.Error(),
			})
		}
	}
	if details.PanelAccountID != "" {
		err := s.bestEffort(ctx, func(ctx context.Context) error {
			return s.panel.DeleteAccount(ctx, details.PanelAccountID)
		})
		if err != nil {
			s.logger.Error("Failed to delete panel account of expired server", map[string]any{
				"orderId":   order.ID,
				"accountId": details.PanelAccountID,
				"error":     err.Error(),
			})
		}
	}
}

// bestEffort runs call detached from the order's deadline with a fresh one
func (s *Sweeper) bestEffort(ctx context.Context, call func(ctx context.Context) error) error {
	callCtx, cancel := s.timeProvider.WithTimeout(context.WithoutCancel(ctx), s.cfg.PerOrderTimeout)
	defer cancel()
	return call(callCtx)
}

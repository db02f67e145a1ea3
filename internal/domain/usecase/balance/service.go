package balance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

// Config holds ledger policy
type Config struct {
	// ReferralBonus is credited to the referrer when a referred user registers. Zero disables it.
	ReferralBonus int64
}

// Service implements the ledger primitives on top of a UnitOfWork
type Service struct {
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	cfg          Config
}

// NewService creates a new balance service
func NewService(
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
) *Service {
	return &Service{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
		cfg:          cfg,
	}
}

// Debit subtracts an amount from a user. Called inside a unit of work it joins it.
func (s *Service) Debit(ctx context.Context, entry usecase.LedgerEntry) (*usecase.LedgerResult, error) {
	if err := entity.ValidateAmount(entry.Amount); err != nil {
		return nil, err
	}
	return s.apply(ctx, entry, -entry.Amount)
}

// Credit adds an amount to a user. Called inside a unit of work it joins it.
func (s *Service) Credit(ctx context.Context, entry usecase.LedgerEntry) (*usecase.LedgerResult, error) {
	if err := entity.ValidateAmount(entry.Amount); err != nil {
		return nil, err
	}
	return s.apply(ctx, entry, entry.Amount)
}

// apply moves the balance by delta and appends the completed transaction in one unit
func (s *Service) apply(ctx context.Context, entry usecase.LedgerEntry, delta int64) (*usecase.LedgerResult, error) {
	if entry.Type == "" {
		if delta < 0 {
			entry.Type = entity.TypePurchase
		} else {
			entry.Type = entity.TypeDeposit
		}
	}

	var result *usecase.LedgerResult
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		users := s.uow.GetUserRepository(ctx)
		user, err := users.GetByIDForUpdate(ctx, entry.UserID)
		if err != nil {
			return err
		}
		if err := user.Apply(delta, s.timeProvider); err != nil {
			return err
		}

		txn, err := entity.NewTransaction(entry.UserID, entry.Type, delta, entry.RefID, entry.Description, s.timeProvider)
		if err != nil {
			return err
		}
		txn.ProductID = entry.ProductID
		txn.PaymentMethod = entry.PaymentMethod
		if err := txn.TransitionTo(entity.TxCompleted, s.timeProvider); err != nil {
			return err
		}

		if err := s.uow.GetTransactionRepository(ctx).Create(ctx, txn); err != nil {
			return err
		}
		if err := users.UpdateBalance(ctx, user.ID, user.Balance()); err != nil {
			return err
		}

		result = &usecase.LedgerResult{Transaction: txn, Balance: user.Balance()}
		return nil
	})
	if err != nil {
		s.logFailure("Balance movement failed", entry, delta, err)
		return nil, err
	}

	s.logger.Info("Balance updated", map[string]any{
		"userId":     entry.UserID,
		"amount":     delta,
		"type":       entry.Type,
		"refId":      entry.RefID,
		"newBalance": result.Balance,
	})
	return result, nil
}

func (s *Service) logFailure(msg string, entry usecase.LedgerEntry, delta int64, err error) {
	fields := map[string]any{
		"userId": entry.UserID,
		"amount": delta,
		"refId":  entry.RefID,
		"error":  err.Error(),
	}
	var fe *errs.InsufficientFundsError
	if errors.As(err, &fe) {
		for k, v := range fe.LogFields() {
			fields[k] = v
		}
	}
	if errs.IsClientError(err) {
		s.logger.Warn(msg, fields)
		return
	}
	s.logger.Error(msg, fields)
}

// GetBalance returns the committed balance of a user
func (s *Service) GetBalance(ctx context.Context, userID string) (int64, error) {
	user, err := s.uow.GetUserRepository(ctx).GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Balance(), nil
}

// History returns the newest transactions of a user
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*entity.Transaction, error) {
	if _, err := s.uow.GetUserRepository(ctx).GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.uow.GetTransactionRepository(ctx).ListByUser(ctx, userID, limit)
}

// RegisterUser creates an account and pays the referral bonus if one applies
func (s *Service) RegisterUser(ctx context.Context, req usecase.RegisterRequest) (*entity.User, error) {
	user, err := entity.NewUser(req.ID, req.Username, req.Email, entity.RoleUser, s.timeProvider)
	if err != nil {
		return nil, err
	}
	user.ReferralCode = strings.ToUpper(strings.ReplaceAll(entity.NewID(), "-", "")[:8])

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		users := s.uow.GetUserRepository(ctx)

		var referrer *entity.User
		if code := strings.TrimSpace(req.ReferralCode); code != "" {
			owner, err := users.GetByReferralCode(ctx, code)
			if err != nil {
				if errors.Is(err, errs.ErrUserNotFound) {
					return fmt.Errorf("%w: unknown referral code", errs.ErrInvalidRequest)
				}
				return err
			}
			referrer = owner
			user.ReferredBy = owner.ID
		}

		if err := users.Create(ctx, user); err != nil {
			return err
		}

		if referrer == nil || s.cfg.ReferralBonus <= 0 {
			return nil
		}
		_, err := s.Credit(ctx, usecase.LedgerEntry{
			UserID:      referrer.ID,
			Amount:      s.cfg.ReferralBonus,
			Type:        entity.TypeReferral,
			Description: "Referral bonus for " + user.Username,
			RefID:       "RFL" + user.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", map[string]any{
		"userId":     user.ID,
		"referredBy": user.ReferredBy,
	})
	return user, nil
}

// DeleteUser removes a non-admin account
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		users := s.uow.GetUserRepository(ctx)
		user, err := users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user.IsAdmin() {
			return errs.ErrForbidden
		}
		return users.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Warn("User deleted", map[string]any{"userId": userID})
	return nil
}

var _ usecase.BalanceUseCase = (*Service)(nil)

package balance

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

// Adjust edits a balance on behalf of an admin. The actual delta is recorded as
// an adjustment transaction; subtract never goes below zero.
func (s *Service) Adjust(ctx context.Context, userID string, action usecase.AdjustAction, amount int64) (*usecase.LedgerResult, error) {
	if amount < 0 || amount > entity.MaxAmount {
		return nil, errs.ErrInvalidAmount
	}

	var result *usecase.LedgerResult
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		user, err := s.uow.GetUserRepository(ctx).GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		current := user.Balance()
		var delta int64
		switch action {
		case usecase.AdjustAdd:
			delta = amount
		case usecase.AdjustSubtract:
			delta = -min(amount, current)
		case usecase.AdjustSet:
			delta = amount - current
		default:
			return fmt.Errorf("%w: unknown adjust action %q", errs.ErrInvalidRequest, action)
		}

		if delta == 0 {
			result = &usecase.LedgerResult{Balance: current}
			return nil
		}

		entry := usecase.LedgerEntry{
			UserID:      userID,
			Type:        entity.TypeAdjustment,
			Description: fmt.Sprintf("Admin %s %s", action, entity.FormatRupiah(amount)),
		}
		if delta > 0 {
			entry.Amount = delta
			result, err = s.Credit(ctx, entry)
		} else {
			entry.Amount = -delta
			result, err = s.Debit(ctx, entry)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Audit compares the stored balance with the sum of completed transactions
func (s *Service) Audit(ctx context.Context, userID string) (*entity.LedgerAudit, error) {
	var audit *entity.LedgerAudit
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		user, err := s.uow.GetUserRepository(ctx).GetByID(ctx, userID)
		if err != nil {
			return err
		}
		sum, err := s.uow.GetTransactionRepository(ctx).SumCompleted(ctx, userID)
		if err != nil {
			return err
		}
		audit = &entity.LedgerAudit{
			UserID:     userID,
			Balance:    user.Balance(),
			LedgerSum:  sum,
			Consistent: user.Balance() == sum,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !audit.Consistent {
		s.logger.Error("Ledger mismatch", map[string]any{
			"userId":    userID,
			"balance":   audit.Balance,
			"ledgerSum": audit.LedgerSum,
		})
	}
	return audit, nil
}

// SeedAdmin creates the operator account with the admin role. An existing
// account with the same id is left as it is.
func (s *Service) SeedAdmin(ctx context.Context, id, username, email string) (*entity.User, error) {
	if username == "" {
		username = "admin"
	}
	admin, err := entity.NewUser(id, username, email, entity.RoleAdmin, s.timeProvider)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		users := s.uow.GetUserRepository(ctx)
		existing, err := users.GetByID(ctx, id)
		if err == nil {
			admin = existing
			return nil
		}
		if !errors.Is(err, errs.ErrUserNotFound) {
			return err
		}
		return users.Create(ctx, admin)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Admin user seeded", map[string]any{"userId": admin.ID, "role": admin.Role})
	return admin, nil
}

package balance

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
)

// Settle completes a pending transaction and applies its amount in one unit.
// The transaction row is locked first, so concurrent callers for the same
// refID observe the completed state and apply nothing.
func (s *Service) Settle(ctx context.Context, refID string) (*entity.Transaction, bool, error) {
	var (
		txn     *entity.Transaction
		applied bool
		balance int64
	)

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		applied = false
		txns := s.uow.GetTransactionRepository(ctx)

		var err error
		txn, err = txns.GetByRefIDForUpdate(ctx, refID)
		if err != nil {
			return err
		}
		if txn.Status != entity.TxPending {
			return nil
		}

		users := s.uow.GetUserRepository(ctx)
		user, err := users.GetByIDForUpdate(ctx, txn.UserID)
		if err != nil {
			return err
		}
		if err := user.Apply(txn.Amount, s.timeProvider); err != nil {
			return err
		}
		if err := txn.TransitionTo(entity.TxCompleted, s.timeProvider); err != nil {
			return err
		}
		if err := txns.Update(ctx, txn); err != nil {
			return err
		}
		if err := users.UpdateBalance(ctx, user.ID, user.Balance()); err != nil {
			return err
		}

		applied = true
		balance = user.Balance()
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to settle transaction", map[string]any{
			"refId": refID,
			"error": err.Error(),
		})
		return nil, false, err
	}

	if applied {
		s.logger.Info("Transaction settled", map[string]any{
			"refId":      refID,
			"userId":     txn.UserID,
			"amount":     txn.Amount,
			"newBalance": balance,
		})
	} else {
		s.logger.Debug("Transaction already settled", map[string]any{
			"refId":  refID,
			"status": txn.Status,
		})
	}
	return txn, applied, nil
}

// Close marks a pending transaction failed or cancelled. Closed transactions
// never count towards the balance, so nothing else changes.
func (s *Service) Close(ctx context.Context, refID string, status entity.TransactionStatus) (*entity.Transaction, error) {
	if status != entity.TxFailed && status != entity.TxCancelled {
		return nil, errs.ErrInvalidRequest
	}

	var txn *entity.Transaction
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		txns := s.uow.GetTransactionRepository(ctx)

		var err error
		txn, err = txns.GetByRefIDForUpdate(ctx, refID)
		if err != nil {
			return err
		}
		if txn.Status == status {
			return nil
		}
		if err := txn.TransitionTo(status, s.timeProvider); err != nil {
			return err
		}
		return txns.Update(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction closed", map[string]any{
		"refId":  refID,
		"status": status,
	})
	return txn, nil
}

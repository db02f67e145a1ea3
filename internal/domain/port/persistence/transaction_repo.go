package persistence

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

// TransactionRepository stores the append-only ledger
type TransactionRepository interface {
	// Create appends a ledger record
	//
	// Possible errors:
	// - ErrDuplicateRefID: If a record with the same non-empty refId exists
	// - ErrDatabase: If the store fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// Update persists status, processedAt and description of an existing record
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the record doesn't exist
	Update(ctx context.Context, transaction *entity.Transaction) error

	// GetByRefID retrieves a record by its external correlation key
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no record has the refId
	GetByRefID(ctx context.Context, refID string) (*entity.Transaction, error)

	// GetByRefIDForUpdate is GetByRefID with a row lock held until the unit of work ends
	GetByRefIDForUpdate(ctx context.Context, refID string) (*entity.Transaction, error)

	// ListByUser returns the newest records first
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Transaction, error)

	// SumCompleted returns the sum of completed amounts for a user
	SumCompleted(ctx context.Context, userID string) (int64, error)
}

package persistence

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

// UserRepository stores accounts and their balances
type UserRepository interface {
	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabase: If the store fails
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetByIDForUpdate retrieves a user and locks the row until the unit of work ends.
	// Outside a unit of work it behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)

	// GetByReferralCode finds the owner of a referral code
	//
	// Possible errors:
	// - ErrUserNotFound: If no user owns the code
	GetByReferralCode(ctx context.Context, code string) (*entity.User, error)

	// Create creates a new user
	//
	// Possible errors:
	// - ErrDuplicateUser: If the id, username or email is taken
	Create(ctx context.Context, user *entity.User) error

	// UpdateBalance persists a balance computed under the row lock
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	UpdateBalance(ctx context.Context, id string, balance int64) error

	// Delete removes a user
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	Delete(ctx context.Context, id string) error
}

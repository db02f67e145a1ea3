package persistence

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

// OrderRepository stores orders
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error

	// Update persists every mutable field of the order
	//
	// Possible errors:
	// - ErrOrderNotFound: If the order doesn't exist
	Update(ctx context.Context, order *entity.Order) error

	// GetByID retrieves an order
	//
	// Possible errors:
	// - ErrOrderNotFound: If the order doesn't exist
	GetByID(ctx context.Context, id string) (*entity.Order, error)

	// GetByIDForUpdate is GetByID with a row lock held until the unit of work ends
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error)

	// GetByRefIDForUpdate finds the order a provider callback refers to, locked
	GetByRefIDForUpdate(ctx context.Context, refID string) (*entity.Order, error)

	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Order, error)

	// ListByTypeAndStatus feeds the expiry sweeper
	ListByTypeAndStatus(ctx context.Context, productType entity.ProductType, status entity.OrderStatus) ([]*entity.Order, error)
}

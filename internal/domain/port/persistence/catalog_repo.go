package persistence

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

// CatalogRepository stores products and server plans
type CatalogRepository interface {
	// GetProduct retrieves a product
	//
	// Possible errors:
	// - ErrProductNotFound: If the product doesn't exist
	GetProduct(ctx context.Context, id string) (*entity.Product, error)

	// GetProductForUpdate is GetProduct with a row lock held until the unit of work ends
	GetProductForUpdate(ctx context.Context, id string) (*entity.Product, error)

	ListProducts(ctx context.Context, activeOnly bool) ([]*entity.Product, error)
	SaveProduct(ctx context.Context, product *entity.Product) error

	// DecrementStock removes quantity only while stock >= quantity
	//
	// Possible errors:
	// - ErrOutOfStock: If there is not enough stock
	DecrementStock(ctx context.Context, id string, quantity int) error

	// GetServerPlan retrieves a server plan
	//
	// Possible errors:
	// - ErrProductNotFound: If the plan doesn't exist
	GetServerPlan(ctx context.Context, id string) (*entity.ServerPlan, error)

	ListServerPlans(ctx context.Context, activeOnly bool) ([]*entity.ServerPlan, error)
	SaveServerPlan(ctx context.Context, plan *entity.ServerPlan) error
}

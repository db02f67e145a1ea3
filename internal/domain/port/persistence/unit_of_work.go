package persistence

import (
	"context"
)

// UnitOfWork runs ledger mutations atomically. Repositories obtained from the
// context passed to fn share the unit; row locks taken through *ForUpdate
// methods are held until fn returns.
type UnitOfWork interface {
	// Do runs fn in one unit of work, committing when fn returns nil and rolling
	// back otherwise. Called with a context that is already inside a unit, fn joins it.
	Do(ctx context.Context, fn func(ctx context.Context) error) error

	GetUserRepository(ctx context.Context) UserRepository
	GetTransactionRepository(ctx context.Context) TransactionRepository
	GetOrderRepository(ctx context.Context) OrderRepository
	GetVoucherRepository(ctx context.Context) VoucherRepository
	GetCatalogRepository(ctx context.Context) CatalogRepository
}

package database

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/repository"
)

type txKey struct{}

// UnitOfWork runs ledger mutations in SERIALIZABLE database transactions
type UnitOfWork struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	policy       ReplayPolicy
	classifier   *repository.ErrorClassifier
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider, policy ReplayPolicy) *UnitOfWork {
	return &UnitOfWork{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
		policy:       policy,
		classifier:   repository.NewErrorClassifier(),
	}
}

// Do runs fn in a transaction. A context already carrying a transaction joins it.
// Serialization failures replay fn from the start, so fn must not call collaborators.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}

	return u.replay(ctx, func() error {
		err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(context.WithValue(ctx, txKey{}, tx))
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
		return u.classifier.MapCommitError(err)
	})
}

// GetUserRepository returns a user repository in the current transaction
func (u *UnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return repository.NewUserRepository(u.getDbFromContext(ctx), u.timeProvider, u.logger)
}

// GetTransactionRepository returns a transaction repository in the current transaction
func (u *UnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return repository.NewTransactionRepository(u.getDbFromContext(ctx), u.logger)
}

// GetOrderRepository returns an order repository in the current transaction
func (u *UnitOfWork) GetOrderRepository(ctx context.Context) persistence.OrderRepository {
	return repository.NewOrderRepository(u.getDbFromContext(ctx), u.logger)
}

// GetVoucherRepository returns a voucher repository in the current transaction
func (u *UnitOfWork) GetVoucherRepository(ctx context.Context) persistence.VoucherRepository {
	return repository.NewVoucherRepository(u.getDbFromContext(ctx), u.logger)
}

// GetCatalogRepository returns a catalog repository in the current transaction
func (u *UnitOfWork) GetCatalogRepository(ctx context.Context) persistence.CatalogRepository {
	return repository.NewCatalogRepository(u.getDbFromContext(ctx), u.logger)
}

// getDbFromContext returns the open transaction or a plain session outside one
func (u *UnitOfWork) getDbFromContext(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	if ok && tx != nil {
		return tx
	}
	return u.db.WithContext(ctx)
}

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)

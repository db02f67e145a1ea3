package usecase

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

// CatalogUseCase serves cached catalog reads and admin catalog writes
type CatalogUseCase interface {
	Products(ctx context.Context) ([]*entity.Product, error)
	ServerPlans(ctx context.Context) ([]*entity.ServerPlan, error)
	DigitalProducts(ctx context.Context) ([]entity.DigitalProduct, error)

	SaveProduct(ctx context.Context, product *entity.Product) error
	SaveServerPlan(ctx context.Context, plan *entity.ServerPlan) error
	CreateVoucher(ctx context.Context, voucher *entity.Voucher) error

	// InvalidateProducts drops cached product data after a stock change
	InvalidateProducts(ctx context.Context)
}

// NotificationUseCase reads the user inbox
type NotificationUseCase interface {
	ListNotifications(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
}

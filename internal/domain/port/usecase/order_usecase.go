package usecase

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

type ProductPurchaseRequest struct {
	UserID      string
	ProductID   string
	Quantity    int
	VoucherCode string
}

type ServerPurchaseRequest struct {
	UserID string
	PlanID string
	Term   string
}

type DigitalPurchaseRequest struct {
	UserID string
	SKU    string
	Target string
}

type OTPPurchaseRequest struct {
	UserID     string
	ServiceID  string
	NumberID   string
	ProviderID string
	OperatorID string
}

// DigitalCallback is a provider report about a top-up
type DigitalCallback struct {
	RefID        string
	Status       string
	Message      string
	SerialNumber string
}

// OrderUseCase drives orders through their state machine
type OrderUseCase interface {
	PurchaseProduct(ctx context.Context, req ProductPurchaseRequest) (*entity.Order, error)

	// PurchaseServer debits, provisions and completes a server order. When
	// provisioning fails the debit is refunded and a ProvisioningError returned.
	PurchaseServer(ctx context.Context, req ServerPurchaseRequest) (*entity.Order, error)

	PurchaseDigital(ctx context.Context, req DigitalPurchaseRequest) (*entity.Order, error)

	// ReconcileDigital applies a provider callback. Re-delivery for a terminal order is a no-op.
	ReconcileDigital(ctx context.Context, cb DigitalCallback) (*entity.Order, error)

	PurchaseOTP(ctx context.Context, req OTPPurchaseRequest) (*entity.Order, error)
	OTPStatus(ctx context.Context, userID, orderID string) (*entity.Order, error)
	CancelOTP(ctx context.Context, userID, orderID string) (*entity.Order, error)

	// Cancel cancels a pending order. userID is empty for admin cancellation.
	Cancel(ctx context.Context, userID, orderID string) (*entity.Order, error)

	SetStatus(ctx context.Context, orderID string, status entity.OrderStatus) (*entity.Order, error)

	// Expire moves a completed order to expired. changed is false if it was not completed.
	Expire(ctx context.Context, orderID string) (order *entity.Order, changed bool, err error)

	ListOrders(ctx context.Context, userID string, limit int) ([]*entity.Order, error)
}

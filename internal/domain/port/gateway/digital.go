package gateway

import (
	"context"
	"strings"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

// DigitalStatus is the normalized provider status of a digital top-up
type DigitalStatus string

const (
	DigitalSuccess DigitalStatus = "success"
	DigitalFailure DigitalStatus = "failure"
	DigitalPending DigitalStatus = "pending"
)

// ParseDigitalStatus maps provider vocabulary (Sukses, Gagal, Pending, ...) to DigitalStatus.
// Anything unknown is pending.
func ParseDigitalStatus(raw string) DigitalStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sukses", "success", "successful":
		return DigitalSuccess
	case "gagal", "failed", "failure", "fail":
		return DigitalFailure
	default:
		return DigitalPending
	}
}

// OrderStatus is the order status a digital status reconciles to
func (s DigitalStatus) OrderStatus() entity.OrderStatus {
	switch s {
	case DigitalSuccess:
		return entity.OrderCompleted
	case DigitalFailure:
		return entity.OrderCancelled
	default:
		return entity.OrderProcessing
	}
}

// DigitalResult is the provider's answer to an order
type DigitalResult struct {
	RefID        string
	Status       DigitalStatus
	Message      string
	SerialNumber string
}

// DigitalGoodsProvider sells game top-ups and other prepaid SKUs.
// Final status may arrive later through a callback keyed by refId.
type DigitalGoodsProvider interface {
	PlaceOrder(ctx context.Context, refID, target, sku string) (*DigitalResult, error)
	// PriceList returns wholesale prices. Price is left at zero; callers apply markup.
	PriceList(ctx context.Context) ([]entity.DigitalProduct, error)
}

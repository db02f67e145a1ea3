package persistence

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

// VoucherRepository stores discount codes. Codes are matched case-insensitively.
type VoucherRepository interface {
	Create(ctx context.Context, voucher *entity.Voucher) error

	// GetByCode retrieves a voucher
	//
	// Possible errors:
	// - ErrVoucherNotFound: If the code doesn't exist
	GetByCode(ctx context.Context, code string) (*entity.Voucher, error)

	// GetByCodeForUpdate is GetByCode with a row lock held until the unit of work ends
	GetByCodeForUpdate(ctx context.Context, code string) (*entity.Voucher, error)

	// IncrementUsage adds one use only while used_count < max_usage
	//
	// Possible errors:
	// - ErrInvalidVoucher: If the voucher is exhausted
	// - ErrVoucherNotFound: If the voucher doesn't exist
	IncrementUsage(ctx context.Context, id string) error
}

package entity

import (
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
)

// DiscountType selects how a voucher reduces the price
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// Voucher is a redeemable discount code. UsedCount never exceeds MaxUsage.
type Voucher struct {
	ID            string
	Code          string
	DiscountType  DiscountType
	DiscountValue int64
	MinPurchase   int64
	MaxUsage      int
	UsedCount     int
	ExpiresAt     *time.Time
	IsActive      bool
}

// NormalizeVoucherCode makes codes case-insensitive
func NormalizeVoucherCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewVoucher validates and creates an active voucher
func NewVoucher(code string, discountType DiscountType, value, minPurchase int64, maxUsage int, expiresAt *time.Time) (*Voucher, error) {
	code = NormalizeVoucherCode(code)
	if code == "" || value <= 0 || maxUsage <= 0 || minPurchase < 0 {
		return nil, errs.ErrInvalidRequest
	}
	switch discountType {
	case DiscountPercent:
		if value > 100 {
			return nil, errs.ErrInvalidRequest
		}
	case DiscountFixed:
	default:
		return nil, errs.ErrInvalidRequest
	}
	return &Voucher{
		ID:            NewID(),
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: value,
		MinPurchase:   minPurchase,
		MaxUsage:      maxUsage,
		ExpiresAt:     expiresAt,
		IsActive:      true,
	}, nil
}

// Check returns an InvalidVoucherError when the voucher cannot be applied to basePrice
func (v *Voucher) Check(basePrice int64, now time.Time) error {
	switch {
	case !v.IsActive:
		return errs.NewInvalidVoucherError(v.Code, errs.VoucherInactive)
	case v.ExpiresAt != nil && now.After(*v.ExpiresAt):
		return errs.NewInvalidVoucherError(v.Code, errs.VoucherExpired)
	case v.UsedCount >= v.MaxUsage:
		return errs.NewInvalidVoucherError(v.Code, errs.VoucherExhausted)
	case basePrice < v.MinPurchase:
		return errs.NewInvalidVoucherError(v.Code, errs.VoucherBelowMinimum)
	}
	return nil
}

// Discount returns the reduction for basePrice, never more than basePrice
func (v *Voucher) Discount(basePrice int64) int64 {
	var d int64
	if v.DiscountType == DiscountPercent {
		d = PercentOf(basePrice, v.DiscountValue)
	} else {
		d = v.DiscountValue
	}
	if d > basePrice {
		return basePrice
	}
	if d < 0 {
		return 0
	}
	return d
}

// Apply returns the discounted price, floored at zero
func (v *Voucher) Apply(basePrice int64) int64 {
	return basePrice - v.Discount(basePrice)
}

// Redeem consumes one use
func (v *Voucher) Redeem() error {
	if v.UsedCount >= v.MaxUsage {
		return errs.NewInvalidVoucherError(v.Code, errs.VoucherExhausted)
	}
	v.UsedCount++
	return nil
}

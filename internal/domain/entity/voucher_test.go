package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
)

func TestNewVoucher(t *testing.T) {
	v, err := NewVoucher(" save10 ", DiscountPercent, 10, 5000, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", v.Code)
	assert.True(t, v.IsActive)

	_, err = NewVoucher("BIG", DiscountPercent, 150, 0, 1, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	_, err = NewVoucher("ZERO", DiscountFixed, 1000, 0, 0, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	_, err = NewVoucher("X", DiscountType("bogo"), 1, 0, 1, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
}

func TestVoucher_Check(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	testCases := []struct {
		name    string
		voucher Voucher
		price   int64
		reason  string
	}{
		{"valid", Voucher{Code: "A", IsActive: true, MaxUsage: 1, MinPurchase: 1000}, 1000, ""},
		{"inactive", Voucher{Code: "A", IsActive: false, MaxUsage: 1}, 1000, errs.VoucherInactive},
		{"expired", Voucher{Code: "A", IsActive: true, MaxUsage: 1, ExpiresAt: &yesterday}, 1000, errs.VoucherExpired},
		{"exhausted", Voucher{Code: "A", IsActive: true, MaxUsage: 1, UsedCount: 1}, 1000, errs.VoucherExhausted},
		{"below minimum", Voucher{Code: "A", IsActive: true, MaxUsage: 1, MinPurchase: 5000}, 4000, errs.VoucherBelowMinimum},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.voucher.Check(tc.price, now)
			if tc.reason == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errs.ErrInvalidVoucher)
			var invalid *errs.InvalidVoucherError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.reason, invalid.Reason)
		})
	}
}

func TestVoucher_Apply(t *testing.T) {
	percent := Voucher{DiscountType: DiscountPercent, DiscountValue: 10}
	assert.Equal(t, int64(3600), percent.Apply(4000))

	fixed := Voucher{DiscountType: DiscountFixed, DiscountValue: 5000}
	assert.Equal(t, int64(0), fixed.Apply(3000))
	assert.Equal(t, int64(5000), fixed.Apply(10000))
}

func TestVoucher_Redeem(t *testing.T) {
	v := Voucher{Code: "ONE", MaxUsage: 1}
	require.NoError(t, v.Redeem())
	assert.ErrorIs(t, v.Redeem(), errs.ErrInvalidVoucher)
	assert.Equal(t, 1, v.UsedCount)
}

package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
)

// Amounts are whole rupiah held in int64. There is no fractional unit.

// MaxAmount caps a single ledger movement so balances cannot overflow int64
const MaxAmount int64 = 1_000_000_000_000

// ValidateAmount checks that a ledger movement is positive and within range
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", errs.ErrInvalidAmount, amount)
	}
	if amount > MaxAmount {
		return fmt.Errorf("%w: amount %d exceeds maximum %d", errs.ErrInvalidAmount, amount, MaxAmount)
	}
	return nil
}

// PercentOf returns floor(base * pct / 100)
func PercentOf(base, pct int64) int64 {
	if base <= 0 || pct <= 0 {
		return 0
	}
	return base * pct / 100
}

// MarkupPrice returns ceil(base + base*profitPct/100), the customer price for a wholesale cost
func MarkupPrice(base int64, profitPct int64) int64 {
	if base <= 0 {
		return 0
	}
	if profitPct <= 0 {
		return base
	}
	return base + (base*profitPct+99)/100
}

// FormatRupiah renders an amount as "Rp 10.000" for notifications
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "Rp " + b.String()
}

// NewID returns a new random identifier for ledger records
func NewID() string {
	return uuid.NewString()
}

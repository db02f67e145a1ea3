package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
)

func TestDurationDays(t *testing.T) {
	testCases := map[string]int{
		"7 Hari":   7,
		"3 Bulan":  90,
		"1 Tahun":  365,
		"1 bulan":  30,
		"":         DefaultServerDays,
		"lifetime": DefaultServerDays,
		"0 Hari":   DefaultServerDays,
	}
	for text, days := range testCases {
		assert.Equal(t, days, DurationDays(text), text)
	}
}

func TestServerDetails_ExpiryDate(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	d := &ServerDetails{Duration: "1 Bulan"}
	assert.Equal(t, time.Date(2024, 5, 31, 10, 0, 0, 0, time.UTC), d.ExpiryDate(created))

	var missing *ServerDetails
	assert.Equal(t, created.AddDate(0, 0, DefaultServerDays), missing.ExpiryDate(created))
}

func TestDaysRemaining(t *testing.T) {
	expiry := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysRemaining(expiry, expiry.Add(-60*time.Hour)))
	assert.Equal(t, 1, DaysRemaining(expiry, expiry.Add(-time.Hour)))
	assert.Equal(t, 0, DaysRemaining(expiry, expiry))
	assert.Less(t, DaysRemaining(expiry, expiry.Add(25*time.Hour)), 0)
}

func TestServerTerm(t *testing.T) {
	term, err := ParseServerTerm("")
	require.NoError(t, err)
	assert.Equal(t, TermOneMonth, term)

	_, err = ParseServerTerm("2month")
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	assert.Equal(t, int64(10000), TermOneMonth.Price(10000))
	assert.Equal(t, int64(28500), TermThreeMonth.Price(10000))
	assert.Equal(t, int64(54000), TermSixMonth.Price(10000))
	assert.Equal(t, int64(102000), TermOneYear.Price(10000))
	assert.Equal(t, "3 Bulan", TermThreeMonth.Label())
}

package time

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

func TestRealTimeProvider(t *testing.T) {
	tp := NewRealTimeProvider()

	now := tp.Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%1000)

	assert.GreaterOrEqual(t, tp.Since(now.Add(-time.Hour)), core.Hour)
	assert.LessOrEqual(t, tp.Until(now.Add(time.Hour)), core.Hour)

	ctx, cancel := tp.WithTimeout(context.Background(), 50*core.Millisecond)
	defer cancel()
	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
}

func TestDuration_Days(t *testing.T) {
	tests := []struct {
		d    core.Duration
		want int
	}{
		{core.Hour, 1},
		{core.Day, 1},
		{core.Day + core.Second, 2},
		{3 * core.Day, 3},
		{0, 0},
		{-core.Hour, 0},
		{-2 * core.Day, -2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.Days(), tt.d.String())
	}
}

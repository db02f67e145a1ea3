package time

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

// RealTimeProvider is the wall clock in UTC at microsecond precision, the
// resolution of a PostgreSQL timestamptz. A time read here compares equal to
// itself after a round trip through the store.
type RealTimeProvider struct{}

// NewRealTimeProvider creates the wall clock
func NewRealTimeProvider() core.TimeProvider {
	return RealTimeProvider{}
}

func (RealTimeProvider) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (p RealTimeProvider) Since(t time.Time) core.Duration {
	return core.Duration(p.Now().Sub(t))
}

func (p RealTimeProvider) Until(t time.Time) core.Duration {
	return core.Duration(t.Sub(p.Now()))
}

func (RealTimeProvider) WithTimeout(ctx context.Context, timeout core.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}

package core

import (
	"context"
	"math"
	"time"
)

// Duration is the clock's unit for timeouts and rental periods
type Duration time.Duration

const (
	Millisecond Duration = Duration(time.Millisecond)
	Second               = Duration(time.Second)
	Minute               = Duration(time.Minute)
	Hour                 = Duration(time.Hour)
	Day                  = 24 * Hour
)

// Std converts to time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Days rounds up to whole days, so 1h left on a rental is still "1 day".
// Zero or negative means the moment has passed.
func (d Duration) Days() int {
	return int(math.Ceil(float64(d) / float64(Day)))
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// TimeProvider is the clock. Expiry and timeout logic never read time.Now directly.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) Duration
	Until(t time.Time) Duration
	// WithTimeout bounds a call to an external collaborator
	WithTimeout(ctx context.Context, timeout Duration) (context.Context, context.CancelFunc)
}

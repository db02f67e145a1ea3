package database

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	domainErr "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/repository"
)

// ReplayPolicy bounds how often a serializable transaction is replayed after
// losing a conflict to another one
type ReplayPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Jitter    float64 // 0.0-1.0, fraction of the delay added at random
}

// DefaultReplayPolicy suits short ledger transactions
func DefaultReplayPolicy() ReplayPolicy {
	return ReplayPolicy{
		Attempts:  5,
		BaseDelay: 20 * time.Millisecond,
		MaxDelay:  time.Second,
		Jitter:    0.5,
	}
}

// backoff returns the pause after the given zero-based attempt
func (p ReplayPolicy) backoff(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if d > p.MaxDelay || d <= 0 {
		d = p.MaxDelay
	}
	if p.Jitter > 0 {
		d += time.Duration(float64(d) * p.Jitter * rand.Float64())
	}
	return d
}

// replay runs attempt until it succeeds, fails permanently or the policy is exhausted
func (u *UnitOfWork) replay(ctx context.Context, attempt func() error) error {
	attempts := max(u.policy.Attempts, 1)

	var err error
	for n := 0; n < attempts; n++ {
		err = attempt()
		if err == nil || !replayable(u.classifier, err) {
			return err
		}
		if n == attempts-1 {
			break
		}

		wait := u.policy.backoff(n)
		u.logger.Warn("Ledger transaction lost a conflict, replaying", map[string]any{
			"attempt":     n + 1,
			"of":          attempts,
			"error":       err.Error(),
			"retry_after": wait.String(),
		})

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	u.logger.Error("Ledger transaction gave up after conflicts", map[string]any{
		"attempts": attempts,
		"error":    err.Error(),
	})
	return err
}

// replayable reports whether running the same transaction again can succeed.
// Business errors, duplicate keys and deadlines are final.
func replayable(classifier *repository.ErrorClassifier, err error) bool {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, domainErr.ErrConcurrentUpdate):
		return true
	case classifier.IsDuplicateKeyError(err):
		return false
	}
	return classifier.IsLockError(err) || pgconn.SafeToRetry(err) || classifier.IsTransientError(err)
}

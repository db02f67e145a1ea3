package persistence

import (
	"context"
	"time"
)

// ResourceLockRepository provides named locks shared by every process using the store
type ResourceLockRepository interface {
	// AcquireLock takes the named lock for owner. The lock expires after ttl.
	//
	// Possible errors:
	// - ErrLockHeld: If another owner holds an unexpired lock
	// - ErrDatabase: If the store fails
	AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) error

	// ReleaseLock releases the lock if owner still holds it
	ReleaseLock(ctx context.Context, key, owner string) error
}

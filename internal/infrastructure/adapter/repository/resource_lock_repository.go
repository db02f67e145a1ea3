package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/model"
)

// ResourceLockRepository implements named locks in the resource_locks table
type ResourceLockRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewResourceLockRepository creates a new ResourceLockRepository instance
func NewResourceLockRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *ResourceLockRepository {
	return &ResourceLockRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// AcquireLock takes the named lock in a single upsert. The conflict branch only
// fires when the current lock expired or already belongs to owner.
func (r *ResourceLockRepository) AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) error {
	now := r.timeProvider.Now()
	expiresAt := now.Add(ttl)

	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO resource_locks (key, owner, locked_at, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE
		SET owner = EXCLUDED.owner,
		    locked_at = EXCLUDED.locked_at,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
		WHERE resource_locks.expires_at <= ? OR resource_locks.owner = EXCLUDED.owner`,
		key, owner, now, expiresAt, now, now,
		now,
	)

	if result.Error != nil {
		if isContextError(result.Error) {
			return fmt.Errorf("lock acquisition timeout: %w", result.Error)
		}
		r.logger.Error("Database error acquiring lock", map[string]any{
			"key":   key,
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabase, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		r.logger.Debug("Lock held by another owner", map[string]any{"key": key, "owner": owner})
		return errs.ErrLockHeld
	}

	r.logger.Debug("Lock acquired", map[string]any{
		"key":        key,
		"owner":      owner,
		"expires_at": expiresAt,
	})
	return nil
}

// ReleaseLock deletes the lock if owner still holds it
func (r *ResourceLockRepository) ReleaseLock(ctx context.Context, key, owner string) error {
	result := r.db.WithContext(ctx).
		Where("key = ? AND owner = ?", key, owner).
		Delete(&model.ResourceLock{})

	// the lock expires on its own
	if result.Error != nil && isContextError(result.Error) {
		r.logger.Warn("Context timeout when releasing lock, lock will expire automatically", map[string]any{
			"key":   key,
			"error": result.Error.Error(),
		})
		return nil
	}
	if result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabase, result.Error.Error())
	}
	return nil
}

// CleanupExpiredLocks removes all expired locks
func (r *ResourceLockRepository) CleanupExpiredLocks(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", r.timeProvider.Now()).Delete(&model.ResourceLock{})
	if result.Error != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabase, result.Error.Error())
	}
	return result.RowsAffected, nil
}

// isContextError checks if an error is related to context timeout or cancellation
func isContextError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

var _ persistence.ResourceLockRepository = (*ResourceLockRepository)(nil)

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
)

// ErrorType represents the type of database error that occurred
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	TransientError    ErrorType = "transient"
	LockError         ErrorType = "lock"
	ConstraintError   ErrorType = "constraint"
)

// PostgreSQL error codes the repositories react to
const (
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
)

// ErrorClassifier provides methods to classify database errors
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// Classify returns the type of error
func (c *ErrorClassifier) Classify(err error) ErrorType {
	switch {
	case err == nil:
		return ""
	case c.IsDuplicateKeyError(err):
		return DuplicateKeyError
	case c.IsLockError(err):
		return LockError
	case c.IsConstraintError(err):
		return ConstraintError
	case c.IsTransientError(err):
		return TransientError
	}
	return ""
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsDuplicateKeyError checks if the error is a duplicate key error
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if pgCode(err) == pgUniqueViolation || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}

// IsTransientError checks if an error is transient and can be retried
func (c *ErrorClassifier) IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "server closed") ||
		strings.Contains(msg, "broken pipe")
}

// IsLockError checks if the error is due to locking or serialization
func (c *ErrorClassifier) IsLockError(err error) bool {
	if err == nil {
		return false
	}
	switch pgCode(err) {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "serialization failure")
}

// IsConstraintError checks if the error is a check constraint violation
func (c *ErrorClassifier) IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if pgCode(err) == pgCheckViolation {
		return true
	}
	return strings.Contains(err.Error(), "violates check constraint")
}

// MapCommitError converts a driver error escaping a whole transaction, e.g. a
// deferred unique check failing at COMMIT. Domain errors raised inside the
// transaction pass through unchanged.
func (c *ErrorClassifier) MapCommitError(err error) error {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case c.IsLockError(err):
		return fmt.Errorf("%w: %s", errs.ErrConcurrentUpdate, pgErr.Message)
	case pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "username"):
		return errs.ErrDuplicateUser
	case pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "ref_id"):
		return errs.ErrDuplicateRefID
	case pgErr.Code == pgUniqueViolation:
		return fmt.Errorf("%w: %s", errs.ErrInvalidRequest, pgErr.Detail)
	case pgErr.Code == pgQueryCanceled:
		return fmt.Errorf("%w: statement timed out", errs.ErrDatabase)
	}
	return fmt.Errorf("%w: %s", errs.ErrDatabase, pgErr.Message)
}

// mapError converts a driver error into the domain taxonomy. notFound is
// returned for gorm.ErrRecordNotFound.
func (c *ErrorClassifier) mapError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return err
	case c.IsLockError(err):
		return fmt.Errorf("%w: %s", errs.ErrConcurrentUpdate, err.Error())
	}
	return fmt.Errorf("%w: %s", errs.ErrDatabase, err.Error())
}

// forUpdate adds SELECT ... FOR UPDATE. The row lock lives until the enclosing transaction ends.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// nullable stores empty correlation keys as NULL so unique indexes ignore them
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func capLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 500
	}
	return limit
}

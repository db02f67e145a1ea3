package error

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientFunds  = 4001
	CodeInvalidAmount      = 4002
	CodeInvalidRequest     = 4003
	CodeDuplicateRefID     = 4004
	CodeInvalidVoucher     = 4005
	CodeOutOfStock         = 4006
	CodeProductInactive    = 4007
	CodeInvalidTransition  = 4008
	CodeInvalidSignature   = 4011
	CodeForbidden          = 4030
	CodeUserNotFound       = 4040
	CodeOrderNotFound      = 4041
	CodeTransactionMissing = 4042
	CodeVoucherNotFound    = 4043
	CodeProductNotFound    = 4044
	CodeNotFound           = 4049
	CodeConcurrentUpdate   = 4090
	CodeDuplicateUser      = 4091
	CodeLockHeld           = 4230

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeExternalService    = 5020
	CodeProvisioningFailed = 5021
	CodeDatabase           = 5030
	CodeExternalTimeout    = 5040
)

// Base error types
var (
	// ErrInsufficientFunds is returned when a debit exceeds the user's balance
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount is returned when an amount is zero, negative or out of range
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrDuplicateRefID is returned when a transaction with the same refId already exists
	ErrDuplicateRefID = errors.New("transaction with this refId already exists")

	// ErrDuplicateCallback marks a re-delivered webhook or poll. It is benign.
	ErrDuplicateCallback = errors.New("duplicate callback")

	ErrInvalidVoucher  = errors.New("invalid voucher")
	ErrOutOfStock      = errors.New("product out of stock")
	ErrProductInactive = errors.New("product is not active")

	// ErrInvalidTransition is returned when a status change is not allowed by the state machine
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidSignature is returned when a webhook cannot be attributed to the configured merchant
	ErrInvalidSignature = errors.New("invalid webhook signature")

	ErrForbidden = errors.New("operation not permitted")

	ErrUserNotFound        = errors.New("user not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrVoucherNotFound     = errors.New("voucher not found")
	ErrProductNotFound     = errors.New("product not found")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateUser is returned when trying to create a user that already exists
	ErrDuplicateUser = errors.New("user already exists")

	// ErrConcurrentUpdate is returned when the store aborted a unit of work because of a
	// conflicting concurrent writer. The unit of work may be retried.
	ErrConcurrentUpdate = errors.New("concurrent update conflict")

	// ErrLockHeld is returned when a named resource lock is held by another owner
	ErrLockHeld = errors.New("resource is locked by another owner")

	// ErrProvisioningFailed is returned when fulfillment failed and the order was compensated
	ErrProvisioningFailed = errors.New("provisioning failed")

	// ErrExternalService is returned when a collaborator call failed
	ErrExternalService = errors.New("external service error")

	// ErrExternalTimeout is returned when a collaborator call exceeded its deadline
	ErrExternalTimeout = errors.New("external service timeout")

	// ErrDatabase is returned for store failures that are not domain errors
	ErrDatabase = errors.New("database error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrDuplicateRefID):
		return CodeDuplicateRefID
	case errors.Is(err, ErrInvalidVoucher):
		return CodeInvalidVoucher
	case errors.Is(err, ErrOutOfStock):
		return CodeOutOfStock
	case errors.Is(err, ErrProductInactive):
		return CodeProductInactive
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrInvalidSignature):
		return CodeInvalidSignature
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrOrderNotFound):
		return CodeOrderNotFound
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionMissing
	case errors.Is(err, ErrVoucherNotFound):
		return CodeVoucherNotFound
	case errors.Is(err, ErrProductNotFound):
		return CodeProductNotFound
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConcurrentUpdate):
		return CodeConcurrentUpdate
	case errors.Is(err, ErrDuplicateUser):
		return CodeDuplicateUser
	case errors.Is(err, ErrLockHeld):
		return CodeLockHeld
	case errors.Is(err, ErrProvisioningFailed):
		return CodeProvisioningFailed
	case errors.Is(err, ErrExternalTimeout):
		return CodeExternalTimeout
	case errors.Is(err, ErrExternalService):
		return CodeExternalService
	case errors.Is(err, ErrDatabase):
		return CodeDatabase
	default:
		return CodeInternalServer
	}
}

// InsufficientFundsError provides detailed error information for a rejected debit
type InsufficientFundsError struct {
	UserID    string
	Required  int64
	Available int64
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for user %s: required %d, available %d",
		e.UserID, e.Required, e.Available)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"userId":     e.UserID,
		"required":   e.Required,
		"available":  e.Available,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(userID string, required, available int64) error {
	return &InsufficientFundsError{UserID: userID, Required: required, Available: available}
}

// Voucher rejection reasons
const (
	VoucherInactive     = "inactive"
	VoucherExpired      = "expired"
	VoucherExhausted    = "usage limit reached"
	VoucherBelowMinimum = "purchase below minimum"
)

// InvalidVoucherError explains why a voucher was rejected
type InvalidVoucherError struct {
	Code   string
	Reason string
}

func (e *InvalidVoucherError) Error() string {
	return fmt.Sprintf("voucher %s rejected: %s", e.Code, e.Reason)
}

// Is checks if the target error is an ErrInvalidVoucher
func (e *InvalidVoucherError) Is(target error) bool {
	return target == ErrInvalidVoucher
}

// LogFields returns a map of fields for structured logging
func (e *InvalidVoucherError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "invalid_voucher",
		"voucher":    e.Code,
		"reason":     e.Reason,
		"error_code": CodeInvalidVoucher,
	}
}

// NewInvalidVoucherError creates a voucher rejection with a reason
func NewInvalidVoucherError(code, reason string) error {
	return &InvalidVoucherError{Code: code, Reason: reason}
}

// TransitionError reports a status change rejected by an entity state machine
type TransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s cannot move from %s to %s", e.Entity, e.ID, e.From, e.To)
}

// Is checks if the target error is an ErrInvalidTransition
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// LogFields returns a map of fields for structured logging
func (e *TransitionError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "invalid_transition",
		"entity":     e.Entity,
		"id":         e.ID,
		"from":       e.From,
		"to":         e.To,
		"error_code": CodeInvalidTransition,
	}
}

// NewTransitionError creates a new state machine rejection
func NewTransitionError(entity, id, from, to string) error {
	return &TransitionError{Entity: entity, ID: id, From: from, To: to}
}

// ProvisioningError is returned to the caller after a failed fulfillment has been
// compensated. Refunded holds the amount credited back to the user.
type ProvisioningError struct {
	OrderID  string
	UserID   string
	Refunded int64
	Err      error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning failed for order %s (user %s, refunded %d): %v",
		e.OrderID, e.UserID, e.Refunded, e.Err)
}

// Unwrap returns the collaborator error
func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrProvisioningFailed
func (e *ProvisioningError) Is(target error) bool {
	return target == ErrProvisioningFailed
}

// LogFields returns a map of fields for structured logging
func (e *ProvisioningError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type": "provisioning_failed",
		"orderId":    e.OrderID,
		"userId":     e.UserID,
		"refunded":   e.Refunded,
		"error_code": CodeProvisioningFailed,
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	return fields
}

// NewProvisioningError wraps a collaborator failure after compensation
func NewProvisioningError(orderID, userID string, refunded int64, err error) error {
	return &ProvisioningError{OrderID: orderID, UserID: userID, Refunded: refunded, Err: err}
}

// ExternalError wraps a failed call to a collaborator (payment gateway, panel, provider)
type ExternalError struct {
	Service   string
	Operation string
	Timeout   bool
	Err       error
}

func (e *ExternalError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s %s timed out: %v", e.Service, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *ExternalError) Unwrap() error {
	return e.Err
}

// Is matches ErrExternalService, and ErrExternalTimeout for deadline failures
func (e *ExternalError) Is(target error) bool {
	return target == ErrExternalService || (e.Timeout && target == ErrExternalTimeout)
}

// LogFields returns a map of fields for structured logging
func (e *ExternalError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "external_error",
		"service":    e.Service,
		"operation":  e.Operation,
		"timeout":    e.Timeout,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e),
	}
}

// NewExternalError wraps err as a collaborator failure, flagging deadline errors as timeouts
func NewExternalError(service, operation string, err error) error {
	if err == nil {
		return nil
	}
	var existing *ExternalError
	if errors.As(err, &existing) {
		return err
	}
	return &ExternalError{
		Service:   service,
		Operation: operation,
		Timeout:   isTimeout(err),
		Err:       err,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrExternalTimeout) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrVoucherNotFound) ||
		errors.Is(err, ErrProductNotFound)
}

// IsClientError reports whether err was caused by the caller's input
func IsClientError(err error) bool {
	code := ErrorCode(err)
	return code >= 4000 && code < 5000
}

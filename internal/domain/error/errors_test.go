package error

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"InsufficientFunds", ErrInsufficientFunds, 4001},
		{"DetailedInsufficientFunds", NewInsufficientFundsError("u1", 100, 50), 4001},
		{"InvalidAmount", ErrInvalidAmount, 4002},
		{"InvalidVoucher", NewInvalidVoucherError("SAVE10", VoucherExhausted), 4005},
		{"InvalidTransition", NewTransitionError("order", "o1", "completed", "pending"), 4008},
		{"UserNotFound", ErrUserNotFound, 4040},
		{"OrderNotFound", ErrOrderNotFound, 4041},
		{"TransactionNotFound", ErrTransactionNotFound, 4042},
		{"LockHeld", ErrLockHeld, 4230},
		{"ProvisioningFailed", NewProvisioningError("o1", "u1", 100, errors.New("panel down")), 5021},
		{"ExternalTimeout", NewExternalError("tokopay", "createCharge", context.DeadlineExceeded), 5040},
		{"ExternalFailure", NewExternalError("tokopay", "createCharge", errors.New("bad gateway")), 5020},
		{"UnknownError", errors.New("unknown error"), 5000},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrInvalidAmount), 4002},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := ErrorCode(tc.err)
			if code != tc.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tc.err, code, tc.expected)
			}
		})
	}
}

func TestProvisioningErrorUnwrapsCollaboratorError(t *testing.T) {
	timeout := NewExternalError("pterodactyl", "createResource", context.DeadlineExceeded)
	err := NewProvisioningError("o1", "u1", 4000, timeout)

	if !errors.Is(err, ErrProvisioningFailed) {
		t.Errorf("errors.Is(err, ErrProvisioningFailed) = false, want true")
	}
	if !errors.Is(err, ErrExternalTimeout) {
		t.Errorf("errors.Is(err, ErrExternalTimeout) = false, want true")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("errors.Is(err, context.DeadlineExceeded) = false, want true")
	}

	var provErr *ProvisioningError
	if !errors.As(err, &provErr) || provErr.Refunded != 4000 {
		t.Errorf("errors.As did not expose refunded amount")
	}
}

func TestNewExternalErrorKeepsExistingWrapper(t *testing.T) {
	inner := NewExternalError("digiflazz", "placeOrder", errors.New("boom"))
	outer := NewExternalError("order", "fulfill", inner)

	if outer != inner {
		t.Errorf("NewExternalError re-wrapped an ExternalError")
	}
	if NewExternalError("x", "y", nil) != nil {
		t.Errorf("NewExternalError(nil) should be nil")
	}
}

func TestLogFields(t *testing.T) {
	err := &InsufficientFundsError{UserID: "u1", Required: 500, Available: 100}
	fields := err.LogFields()

	if fields["userId"] != "u1" || fields["required"] != int64(500) || fields["available"] != int64(100) {
		t.Errorf("unexpected log fields: %v", fields)
	}
	if fields["error_code"] != CodeInsufficientFunds {
		t.Errorf("error_code = %v, want %d", fields["error_code"], CodeInsufficientFunds)
	}
}

func TestIsNotFoundError(t *testing.T) {
	for _, err := range []error{ErrNotFound, ErrUserNotFound, ErrOrderNotFound, ErrTransactionNotFound, ErrVoucherNotFound, ErrProductNotFound} {
		if !IsNotFoundError(fmt.Errorf("lookup: %w", err)) {
			t.Errorf("IsNotFoundError(%v) = false, want true", err)
		}
	}
	if IsNotFoundError(ErrInsufficientFunds) {
		t.Errorf("IsNotFoundError(ErrInsufficientFunds) = true, want false")
	}
}

func TestIsClientError(t *testing.T) {
	if !IsClientError(ErrInvalidVoucher) {
		t.Errorf("IsClientError(ErrInvalidVoucher) = false, want true")
	}
	if IsClientError(ErrDatabase) {
		t.Errorf("IsClientError(ErrDatabase) = true, want false")
	}
}

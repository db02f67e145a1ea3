package entity

import (
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

// Role of a marketplace account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a marketplace account with a balance in rupiah
type User struct {
	ID           string
	Username     string
	Email        string
	Role         Role
	balance      int64 // never negative after a committed operation
	ReferralCode string
	ReferredBy   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a user with a zero balance
func NewUser(id, username, email string, role Role, timeProvider coreport.TimeProvider) (*User, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(username) == "" {
		return nil, errs.ErrInvalidRequest
	}
	if role == "" {
		role = RoleUser
	}

	now := timeProvider.Now()
	return &User{
		ID:        id,
		Username:  username,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RestoreUser rebuilds a user loaded from storage
func RestoreUser(id, username, email string, role Role, balance int64, referralCode, referredBy string, createdAt, updatedAt time.Time) *User {
	return &User{
		ID:           id,
		Username:     username,
		Email:        email,
		Role:         role,
		balance:      balance,
		ReferralCode: referralCode,
		ReferredBy:   referredBy,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Balance returns the current balance
func (u *User) Balance() int64 {
	return u.balance
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Debit subtracts amount, refusing to go below zero
func (u *User) Debit(amount int64, timeProvider coreport.TimeProvider) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if u.balance < amount {
		return errs.NewInsufficientFundsError(u.ID, amount, u.balance)
	}
	u.balance -= amount
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// Credit adds amount to the balance
func (u *User) Credit(amount int64, timeProvider coreport.TimeProvider) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if u.balance > MaxBalance-amount {
		return errs.ErrInvalidAmount
	}
	u.balance += amount
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// Apply moves the balance by a signed delta: negative debits, positive credits
func (u *User) Apply(delta int64, timeProvider coreport.TimeProvider) error {
	if delta < 0 {
		return u.Debit(-delta, timeProvider)
	}
	return u.Credit(delta, timeProvider)
}

// MaxBalance bounds a single account
const MaxBalance int64 = 1 << 62

package dto

import (
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

// BalanceResponse represents the API response for a user's balance
type BalanceResponse struct {
	UserID    string `json:"userId"`
	Balance   int64  `json:"balance"`
	Formatted string `json:"formatted"`
}

// NewBalanceResponse formats a balance in rupiah
func NewBalanceResponse(userID string, balance int64) BalanceResponse {
	return BalanceResponse{UserID: userID, Balance: balance, Formatted: entity.FormatRupiah(balance)}
}

// AdjustBalanceRequest is an admin balance edit
type AdjustBalanceRequest struct {
	Action string `json:"action" binding:"required,oneof=add subtract set"`
	Amount int64  `json:"amount" binding:"min=0"`
}

// LedgerResponse is the outcome of a balance movement
type LedgerResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Balance     int64               `json:"balance"`
}

// NewLedgerResponse maps a committed ledger result
func NewLedgerResponse(r *usecase.LedgerResult) LedgerResponse {
	return LedgerResponse{Transaction: NewTransactionResponse(r.Transaction), Balance: r.Balance}
}

// RegisterUserRequest creates a marketplace account
type RegisterUserRequest struct {
	ID           string `json:"id" binding:"required,max=64"`
	Username     string `json:"username" binding:"required,min=3,max=32"`
	Email        string `json:"email" binding:"omitempty,email"`
	ReferralCode string `json:"referralCode" binding:"omitempty,alphanum,max=32"`
}

// UserResponse represents a registered user
type UserResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role"`
	Balance      int64  `json:"balance"`
	ReferralCode string `json:"referralCode"`
	ReferredBy   string `json:"referredBy,omitempty"`
}

// NewUserResponse maps a user entity
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         string(u.Role),
		Balance:      u.Balance(),
		ReferralCode: u.ReferralCode,
		ReferredBy:   u.ReferredBy,
	}
}

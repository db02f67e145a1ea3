package model

import (
	"time"
)

// User represents the database model for users
type User struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Username     string    `gorm:"not null;size:100;uniqueIndex"`
	Email        string    `gorm:"size:255;index"`
	Role         string    `gorm:"not null;size:20;default:user"`
	Balance      int64     `gorm:"not null;default:0;check:chk_users_balance,balance >= 0"` // rupiah
	ReferralCode string    `gorm:"size:16;index"`
	ReferredBy   string    `gorm:"size:64"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

package model

import (
	"time"
)

// Voucher represents the database model for discount codes
type Voucher struct {
	ID            string     `gorm:"primaryKey;size:64"`
	Code          string     `gorm:"not null;size:50;uniqueIndex"`
	DiscountType  string     `gorm:"not null;size:20"`
	DiscountValue int64      `gorm:"not null"`
	MinPurchase   int64      `gorm:"not null;default:0"`
	MaxUsage      int        `gorm:"not null"`
	UsedCount     int        `gorm:"not null;default:0;check:chk_vouchers_usage,used_count <= max_usage"`
	ExpiresAt     *time.Time
	IsActive      bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for Voucher
func (Voucher) TableName() string {
	return "vouchers"
}

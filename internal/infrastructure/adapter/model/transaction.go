package model

import (
	"time"
)

// Transaction represents the database model for ledger records
type Transaction struct {
	ID            string    `gorm:"primaryKey;size:64"`
	UserID        string    `gorm:"not null;size:64;index"`
	Type          string    `gorm:"not null;size:20"`
	Amount        int64     `gorm:"not null"`
	Status        string    `gorm:"not null;size:20;index"`
	RefID         *string   `gorm:"size:100;uniqueIndex"` // NULL when the record has no external key
	Description   string    `gorm:"type:text"`
	PaymentMethod string    `gorm:"size:50"`
	ProductID     string    `gorm:"size:100"`
	CreatedAt     time.Time `gorm:"not null;index"`
	ProcessedAt   *time.Time

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

package model

import (
	"time"

	"gorm.io/datatypes"
)

// Order represents the database model for orders
type Order struct {
	ID            string         `gorm:"primaryKey;size:64"`
	UserID        string         `gorm:"not null;size:64;index"`
	Username      string         `gorm:"size:100"`
	ProductType   string         `gorm:"not null;size:20;index:idx_orders_type_status"`
	ProductID     string         `gorm:"size:100"`
	ProductName   string         `gorm:"size:255"`
	Quantity      int            `gorm:"not null;default:1"`
	TotalPrice    int64          `gorm:"not null"`
	Status        string         `gorm:"not null;size:20;index:idx_orders_type_status"`
	RefID         *string        `gorm:"size:100;uniqueIndex"`
	TransactionID string         `gorm:"size:64"`
	VoucherCode   string         `gorm:"size:50"`
	Target        string         `gorm:"size:100"`
	Note          string         `gorm:"type:text"`
	Reason        string         `gorm:"type:text"`
	ServerDetails datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"not null;index"`
	CompletedAt   *time.Time
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

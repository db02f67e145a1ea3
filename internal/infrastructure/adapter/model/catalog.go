package model

import (
	"time"
)

// Product represents the database model for stocked products
type Product struct {
	ID          string    `gorm:"primaryKey;size:64"`
	Name        string    `gorm:"not null;size:255"`
	Description string    `gorm:"type:text"`
	Category    string    `gorm:"size:100"`
	Price       int64     `gorm:"not null"`
	Stock       int       `gorm:"not null;default:0;check:chk_products_stock,stock >= 0"`
	IsActive    bool      `gorm:"not null;default:true;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// ServerPlan represents the database model for rentable server plans
type ServerPlan struct {
	ID          string    `gorm:"primaryKey;size:64"`
	Name        string    `gorm:"not null;size:255"`
	RAM         int       `gorm:"not null"`
	CPU         int       `gorm:"not null"`
	Disk        int       `gorm:"not null"`
	Price       int64     `gorm:"not null"`
	Location    string    `gorm:"size:50"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"not null;default:true;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for ServerPlan
func (ServerPlan) TableName() string {
	return "server_plans"
}

package model

import (
	"time"
)

// ResourceLock is a named lock shared by every instance using the database
type ResourceLock struct {
	Key       string    `gorm:"primaryKey;size:100"`
	Owner     string    `gorm:"not null;size:255"`
	LockedAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for ResourceLock
func (ResourceLock) TableName() string {
	return "resource_locks"
}

package model

import (
	"time"
)

// Notification represents a message in a user's inbox
type Notification struct {
	ID        string    `gorm:"primaryKey;size:64"`
	UserID    string    `gorm:"not null;size:64;index"`
	Title     string    `gorm:"not null;size:255"`
	Message   string    `gorm:"type:text"`
	Severity  string    `gorm:"not null;size:20"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// NotificationMarker records a one-shot event so it is never repeated
type NotificationMarker struct {
	Key       string    `gorm:"primaryKey;size:255"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for NotificationMarker
func (NotificationMarker) TableName() string {
	return "notification_markers"
}

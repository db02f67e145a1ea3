package model

import "time"

// SchemaVersion is one applied migration step. The newest row is the schema version.
type SchemaVersion struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Version     string    `gorm:"size:20;not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	ElapsedMs   int64     `gorm:"not null;default:0"`
	AppliedAt   time.Time `gorm:"not null"`
}

func (SchemaVersion) TableName() string {
	return "schema_versions"
}

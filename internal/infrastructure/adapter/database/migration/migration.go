package migration

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/model"
)

// CurrentSchemaVersion is the version of the newest migration step
const CurrentSchemaVersion = "1.1.0"

// step is one versioned migration. Steps run in order, each in its own transaction.
type step struct {
	version string
	details string
	run     func(tx *gorm.DB) error
}

// MigrationManager manages database migrations
type MigrationManager struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	indexMgr     *AdvancedIndexManager
	seed         SeedConfig
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider, seed SeedConfig) *MigrationManager {
	return &MigrationManager{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
		indexMgr:     NewAdvancedIndexManager(logger),
		seed:         seed,
	}
}

func (m *MigrationManager) steps() []step {
	return []step{
		{version: "1.0.0", details: "Base ledger schema", run: autoMigrateModels},
		{version: "1.0.1", details: "Case-insensitive unique keys and ledger indexes", run: m.indexMgr.CreateAdvancedIndexes},
		{version: "1.1.0", details: "Seed admin user and sample vouchers", run: m.seedData},
	}
}

// MigrateAll applies every step newer than the recorded version
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
	})

	if err := m.db.WithContext(ctx).AutoMigrate(&model.SchemaVersion{}); err != nil {
		return fmt.Errorf("failed to create schema version table: %w", err)
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to check current schema version: %w", err)
	}
	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	pending := pendingSteps(m.steps(), currentVersion)
	for _, s := range pending {
		m.logger.Info("Applying migration", map[string]any{
			"version": s.version,
			"details": s.details,
		})

		started := m.timeProvider.Now()
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.run(tx); err != nil {
				return err
			}
			return tx.Create(&model.SchemaVersion{
				Version:     s.version,
				Description: s.details,
				ElapsedMs:   m.timeProvider.Since(started).Std().Milliseconds(),
				AppliedAt:   m.timeProvider.Now(),
			}).Error
		})
		if err != nil {
			m.logger.Error("Migration failed", map[string]any{
				"version": s.version,
				"error":   err.Error(),
			})
			return fmt.Errorf("migration %s failed: %w", s.version, err)
		}
	}

	if err := m.indexMgr.CreatePerformanceTweaks(m.db.WithContext(ctx)); err != nil {
		return err
	}

	m.logger.Info("Database migrations completed successfully", map[string]any{
		"from":    currentVersion,
		"version": CurrentSchemaVersion,
		"applied": len(pending),
	})
	return nil
}

// pendingSteps returns the steps that come after currentVersion
func pendingSteps(all []step, currentVersion string) []step {
	if currentVersion == "" {
		return all
	}
	for i, s := range all {
		if s.version == currentVersion {
			return all[i+1:]
		}
	}
	return all
}

// GetCurrentVersion gets the current migration version
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var version model.SchemaVersion
	result := m.db.WithContext(ctx).Order("id desc").First(&version)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return version.Version, nil
}

// autoMigrateModels creates or updates the ledger tables
func autoMigrateModels(tx *gorm.DB) error {
	return tx.AutoMigrate(
		&model.User{},
		&model.Transaction{},
		&model.Order{},
		&model.Voucher{},
		&model.Product{},
		&model.ServerPlan{},
		&model.Notification{},
		&model.NotificationMarker{},
		&model.ResourceLock{},
	)
}

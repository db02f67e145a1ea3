package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/repository"
)

// Manager owns the database connection and builds everything that needs it
type Manager struct {
	config        *Config
	db            *gorm.DB
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	lastWaitCount atomic.Int64
}

// NewManager creates a new database manager
func NewManager(config *Config, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	return &Manager{
		config:       config,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// NewManagerWithDB wraps an existing connection, e.g. one backed by sqlmock
func NewManagerWithDB(db *gorm.DB, config *Config, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	m := NewManager(config, logger, timeProvider)
	m.db = db
	return m
}

// Connect establishes a database connection, retrying the initial dial
func (m *Manager) Connect(ctx context.Context) (*gorm.DB, error) {
	if err := m.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	m.logger.Info("Connecting to database", map[string]any{
		"driver": m.config.Driver,
		"dsn":    m.config.Redacted(),
	})

	var (
		err    error
		gormDB *gorm.DB
	)
	for attempt := 0; attempt < m.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			m.logger.Warn("Retrying database connection", map[string]any{
				"attempt": attempt + 1,
				"of":      m.config.RetryAttempts,
				"delay":   m.config.RetryDelay.String(),
			})
			select {
			case <-time.After(m.config.RetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		gormDB, err = gorm.Open(postgres.Open(m.config.DSN()), &gorm.Config{
			Logger:      NewDatabaseLogger(m.logger, m.timeProvider, m.config.LogLevel, m.config.SlowThreshold),
			NowFunc:     m.timeProvider.Now,
			PrepareStmt: true,
		})
		if err == nil {
			err = ping(ctx, gormDB, m.config.QueryTimeout)
		}
		if err == nil {
			break
		}

		m.logger.Error("Failed to connect to database", map[string]any{
			"error":   err.Error(),
			"attempt": attempt + 1,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", m.config.RetryAttempts, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(m.config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(m.config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(m.config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(m.config.ConnMaxIdleTime)

	m.logger.Info("Successfully connected to database", map[string]any{
		"host":           m.config.Host,
		"name":           m.config.Database,
		"max_open_conns": m.config.MaxOpenConns,
		"max_idle_conns": m.config.MaxIdleConns,
	})

	m.db = gormDB
	return m.db, nil
}

func ping(ctx context.Context, db *gorm.DB, timeout time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Migrate applies pending schema migrations and clears stale resource locks
func (m *Manager) Migrate(ctx context.Context, seed migration.SeedConfig) error {
	if err := migration.NewMigrationManager(m.db, m.logger, m.timeProvider, seed).MigrateAll(ctx); err != nil {
		return err
	}

	removed, err := m.ResourceLockRepository().CleanupExpiredLocks(ctx)
	if err != nil {
		m.logger.Warn("Failed to clean up expired locks", map[string]any{"error": err.Error()})
	} else if removed > 0 {
		m.logger.Info("Expired locks removed", map[string]any{"count": removed})
	}
	return nil
}

// Ping reports whether the database answers within the query timeout
func (m *Manager) Ping(ctx context.Context) error {
	return ping(ctx, m.db, m.config.QueryTimeout)
}

// DB returns the GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close closes the database connection
func (m *Manager) Close() error {
	m.logger.Info("Closing database connection", nil)

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

// UnitOfWork creates the ledger unit of work
func (m *Manager) UnitOfWork() *UnitOfWork {
	policy := DefaultReplayPolicy()
	if m.config.TxRetries > 0 {
		policy.Attempts = m.config.TxRetries
	}
	return NewUnitOfWork(m.db, m.logger, m.timeProvider, policy)
}

// NotificationRepository returns the user inbox repository
func (m *Manager) NotificationRepository() *repository.NotificationRepository {
	return repository.NewNotificationRepository(m.db)
}

// MarkerRepository returns the one-shot marker repository
func (m *Manager) MarkerRepository() *repository.MarkerRepository {
	return repository.NewMarkerRepository(m.db, m.timeProvider)
}

// ResourceLockRepository returns the named lock repository
func (m *Manager) ResourceLockRepository() *repository.ResourceLockRepository {
	return repository.NewResourceLockRepository(m.db, m.timeProvider, m.logger)
}

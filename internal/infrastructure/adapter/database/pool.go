package database

import (
	"context"
	"fmt"
	"time"
)

// poolSaturation is the in-use share of MaxOpenConns that triggers a warning
const poolSaturation = 0.8

// PoolStats is a sample of the connection pool
type PoolStats struct {
	Open         int    `json:"open"`
	InUse        int    `json:"inUse"`
	Idle         int    `json:"idle"`
	MaxOpen      int    `json:"maxOpen"`
	WaitCount    int64  `json:"waitCount"`
	WaitDuration string `json:"waitDuration"`
}

// PoolStats samples the connection pool
func (m *Manager) PoolStats() (PoolStats, error) {
	sqlDB, err := m.db.DB()
	if err != nil {
		return PoolStats{}, fmt.Errorf("failed to get database connection: %w", err)
	}
	s := sqlDB.Stats()
	return PoolStats{
		Open:         s.OpenConnections,
		InUse:        s.InUse,
		Idle:         s.Idle,
		MaxOpen:      s.MaxOpenConnections,
		WaitCount:    s.WaitCount,
		WaitDuration: s.WaitDuration.Round(time.Millisecond).String(),
	}, nil
}

// CheckPool is a scheduled task that warns when requests queue for connections.
// Ledger transactions hold a connection for their whole SERIALIZABLE run, so a
// saturated pool shows up here before it shows up as timeouts.
func (m *Manager) CheckPool(_ context.Context) error {
	stats, err := m.PoolStats()
	if err != nil {
		return err
	}

	waited := stats.WaitCount - m.lastWaitCount.Swap(stats.WaitCount)
	saturated := stats.MaxOpen > 0 && float64(stats.InUse) > float64(stats.MaxOpen)*poolSaturation
	if saturated || waited > 0 {
		m.logger.Warn("Database connection pool under pressure", map[string]any{
			"in_use":        stats.InUse,
			"max_open":      stats.MaxOpen,
			"idle":          stats.Idle,
			"waits_since":   waited,
			"wait_duration": stats.WaitDuration,
		})
	}
	return nil
}

// HealthDetails reports the pool for the health endpoint
func (m *Manager) HealthDetails() map[string]any {
	stats, err := m.PoolStats()
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return map[string]any{"pool": stats}
}

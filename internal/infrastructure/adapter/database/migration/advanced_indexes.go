package migration

import (
	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

// AdvancedIndexManager manages PostgreSQL-specific indexes gorm tags cannot express
type AdvancedIndexManager struct {
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{logger: logger}
}

var advancedIndexes = []struct {
	name string
	sql  string
}{
	// usernames, emails and referral codes are unique regardless of case
	{"idx_users_username_lower", `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))`},
	{"idx_users_email_lower", `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email)) WHERE email <> ''`},
	{"idx_users_referral_code", `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_referral_code ON users (UPPER(referral_code)) WHERE referral_code <> ''`},
	// ledger audit sums completed amounts per user
	{"idx_transactions_user_completed", `CREATE INDEX IF NOT EXISTS idx_transactions_user_completed ON transactions (user_id) INCLUDE (amount) WHERE status = 'completed'`},
	{"idx_transactions_created_at_brin", `CREATE INDEX IF NOT EXISTS idx_transactions_created_at_brin ON transactions USING BRIN (created_at) WITH (pages_per_range = 32)`},
	// the expiry sweeper only scans completed servers
	{"idx_orders_active_servers", `CREATE INDEX IF NOT EXISTS idx_orders_active_servers ON orders (created_at) WHERE product_type = 'server' AND status = 'completed'`},
}

// CreateAdvancedIndexes creates the indexes inside the migration transaction
func (m *AdvancedIndexManager) CreateAdvancedIndexes(tx *gorm.DB) error {
	for _, idx := range advancedIndexes {
		if err := tx.Exec(idx.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
			return err
		}
	}
	m.logger.Info("Advanced PostgreSQL indexes created", map[string]any{"count": len(advancedIndexes)})
	return nil
}

// CreatePerformanceTweaks applies PostgreSQL storage settings. Failures are logged, not returned.
func (m *AdvancedIndexManager) CreatePerformanceTweaks(db *gorm.DB) error {
	// status updates rewrite rows in place
	if err := db.Exec(`ALTER TABLE transactions SET (fillfactor = 90)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for transactions table", map[string]any{
			"error": err.Error(),
		})
	}
	if err := db.Exec(`ALTER TABLE users SET (fillfactor = 80)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for users table", map[string]any{
			"error": err.Error(),
		})
	}
	return nil
}

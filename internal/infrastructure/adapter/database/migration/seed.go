package migration

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/model"
)

// SeedConfig names the operator account created on a fresh database
type SeedConfig struct {
	AdminID       string
	AdminUsername string
	AdminEmail    string
}

// sample vouchers available on a fresh database
var defaultVouchers = []model.Voucher{
	{Code: "WELCOME10", DiscountType: string(entity.DiscountPercent), DiscountValue: 10, MinPurchase: 10000, MaxUsage: 100, IsActive: true},
	{Code: "HEMAT5K", DiscountType: string(entity.DiscountFixed), DiscountValue: 5000, MinPurchase: 25000, MaxUsage: 50, IsActive: true},
}

// seedData creates the admin user and the sample vouchers unless they exist
func (m *MigrationManager) seedData(tx *gorm.DB) error {
	now := m.timeProvider.Now()

	if strings.TrimSpace(m.seed.AdminID) != "" {
		username := m.seed.AdminUsername
		if username == "" {
			username = "admin"
		}
		admin := model.User{
			ID:        m.seed.AdminID,
			Username:  username,
			Email:     m.seed.AdminEmail,
			Role:      string(entity.RoleAdmin),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&admin).Error; err != nil {
			return fmt.Errorf("seeding admin user: %w", err)
		}
	}

	for _, v := range defaultVouchers {
		v.ID = entity.NewID()
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&v).Error; err != nil {
			return fmt.Errorf("seeding voucher %s: %w", v.Code, err)
		}
	}

	m.logger.Info("Seed data applied", map[string]any{
		"admin":    m.seed.AdminID != "",
		"vouchers": len(defaultVouchers),
	})
	return nil
}

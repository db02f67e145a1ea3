package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/model"
)

// VoucherRepository implements VoucherRepository interface using GORM
type VoucherRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewVoucherRepository creates a new VoucherRepository instance
func NewVoucherRepository(db *gorm.DB, logger coreport.Logger) *VoucherRepository {
	return &VoucherRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *VoucherRepository) modelToEntity(m *model.Voucher) *entity.Voucher {
	return &entity.Voucher{
		ID:            m.ID,
		Code:          m.Code,
		DiscountType:  entity.DiscountType(m.DiscountType),
		DiscountValue: m.DiscountValue,
		MinPurchase:   m.MinPurchase,
		MaxUsage:      m.MaxUsage,
		UsedCount:     m.UsedCount,
		ExpiresAt:     m.ExpiresAt,
		IsActive:      m.IsActive,
	}
}

// Create stores a new voucher
func (r *VoucherRepository) Create(ctx context.Context, voucher *entity.Voucher) error {
	m := model.Voucher{
		ID:            voucher.ID,
		Code:          entity.NormalizeVoucherCode(voucher.Code),
		DiscountType:  string(voucher.DiscountType),
		DiscountValue: voucher.DiscountValue,
		MinPurchase:   voucher.MinPurchase,
		MaxUsage:      voucher.MaxUsage,
		UsedCount:     voucher.UsedCount,
		ExpiresAt:     voucher.ExpiresAt,
		IsActive:      voucher.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if r.errorClassifier.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: voucher %s already exists", errs.ErrInvalidRequest, m.Code)
		}
		return r.errorClassifier.mapError(err, errs.ErrVoucherNotFound)
	}
	return nil
}

func (r *VoucherRepository) getByCode(ctx context.Context, db *gorm.DB, code string) (*entity.Voucher, error) {
	var m model.Voucher
	err := db.WithContext(ctx).Where("code = ?", entity.NormalizeVoucherCode(code)).First(&m).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrVoucherNotFound)
	}
	return r.modelToEntity(&m), nil
}

// GetByCode retrieves a voucher
func (r *VoucherRepository) GetByCode(ctx context.Context, code string) (*entity.Voucher, error) {
	return r.getByCode(ctx, r.db, code)
}

// GetByCodeForUpdate retrieves a voucher with a row lock
func (r *VoucherRepository) GetByCodeForUpdate(ctx context.Context, code string) (*entity.Voucher, error) {
	return r.getByCode(ctx, forUpdate(r.db), code)
}

// IncrementUsage adds one use with a conditional update, so used_count never passes max_usage
func (r *VoucherRepository) IncrementUsage(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&model.Voucher{}).
		Where("id = ? AND used_count < max_usage", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return r.errorClassifier.mapError(result.Error, errs.ErrVoucherNotFound)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var m model.Voucher
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrVoucherNotFound
		}
		return r.errorClassifier.mapError(err, errs.ErrVoucherNotFound)
	}
	return errs.NewInvalidVoucherError(m.Code, errs.VoucherExhausted)
}

var _ persistence.VoucherRepository = (*VoucherRepository)(nil)

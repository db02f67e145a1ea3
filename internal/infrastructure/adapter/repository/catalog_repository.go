package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/model"
)

// CatalogRepository implements CatalogRepository interface using GORM
type CatalogRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewCatalogRepository creates a new CatalogRepository instance
func NewCatalogRepository(db *gorm.DB, logger coreport.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func productToEntity(m *model.Product) *entity.Product {
	return &entity.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Price:       m.Price,
		Stock:       m.Stock,
		IsActive:    m.IsActive,
	}
}

func planToEntity(m *model.ServerPlan) *entity.ServerPlan {
	return &entity.ServerPlan{
		ID:          m.ID,
		Name:        m.Name,
		RAM:         m.RAM,
		CPU:         m.CPU,
		Disk:        m.Disk,
		Price:       m.Price,
		Location:    m.Location,
		Description: m.Description,
		IsActive:    m.IsActive,
	}
}

func (r *CatalogRepository) getProduct(ctx context.Context, db *gorm.DB, id string) (*entity.Product, error) {
	var m model.Product
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrProductNotFound)
	}
	return productToEntity(&m), nil
}

// GetProduct retrieves a product
func (r *CatalogRepository) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return r.getProduct(ctx, r.db, id)
}

// GetProductForUpdate retrieves a product with a row lock
func (r *CatalogRepository) GetProductForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getProduct(ctx, forUpdate(r.db), id)
}

// ListProducts returns products sorted by name
func (r *CatalogRepository) ListProducts(ctx context.Context, activeOnly bool) ([]*entity.Product, error) {
	db := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}

	var models []model.Product
	if err := db.Find(&models).Error; err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrProductNotFound)
	}
	list := make([]*entity.Product, 0, len(models))
	for i := range models {
		list = append(list, productToEntity(&models[i]))
	}
	return list, nil
}

// SaveProduct inserts or replaces a product
func (r *CatalogRepository) SaveProduct(ctx context.Context, product *entity.Product) error {
	m := model.Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Price:       product.Price,
		Stock:       product.Stock,
		IsActive:    product.IsActive,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "category", "price", "stock", "is_active", "updated_at"}),
	}).Create(&m).Error
	return r.errorClassifier.mapError(err, errs.ErrProductNotFound)
}

// DecrementStock removes quantity with a conditional update, so stock never goes negative
func (r *CatalogRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return errs.ErrInvalidRequest
	}

	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return r.errorClassifier.mapError(result.Error, errs.ErrProductNotFound)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return r.errorClassifier.mapError(err, errs.ErrProductNotFound)
	}
	if count == 0 {
		return errs.ErrProductNotFound
	}
	return errs.ErrOutOfStock
}

// GetServerPlan retrieves a server plan
func (r *CatalogRepository) GetServerPlan(ctx context.Context, id string) (*entity.ServerPlan, error) {
	var m model.ServerPlan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrProductNotFound
	}
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrProductNotFound)
	}
	return planToEntity(&m), nil
}

// ListServerPlans returns plans sorted by name
func (r *CatalogRepository) ListServerPlans(ctx context.Context, activeOnly bool) ([]*entity.ServerPlan, error) {
	db := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}

	var models []model.ServerPlan
	if err := db.Find(&models).Error; err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrProductNotFound)
	}
	list := make([]*entity.ServerPlan, 0, len(models))
	for i := range models {
		list = append(list, planToEntity(&models[i]))
	}
	return list, nil
}

// SaveServerPlan inserts or replaces a server plan
func (r *CatalogRepository) SaveServerPlan(ctx context.Context, plan *entity.ServerPlan) error {
	m := model.ServerPlan{
		ID:          plan.ID,
		Name:        plan.Name,
		RAM:         plan.RAM,
		CPU:         plan.CPU,
		Disk:        plan.Disk,
		Price:       plan.Price,
		Location:    plan.Location,
		Description: plan.Description,
		IsActive:    plan.IsActive,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "ram", "cpu", "disk", "price", "location", "description", "is_active", "updated_at"}),
	}).Create(&m).Error
	return r.errorClassifier.mapError(err, errs.ErrProductNotFound)
}

var _ persistence.CatalogRepository = (*CatalogRepository)(nil)

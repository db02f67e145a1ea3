package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/model"
)

// OrderRepository implements OrderRepository interface using GORM
type OrderRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewOrderRepository creates a new OrderRepository instance
func NewOrderRepository(db *gorm.DB, logger coreport.Logger) *OrderRepository {
	return &OrderRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *OrderRepository) entityToModel(o *entity.Order) (model.Order, error) {
	m := model.Order{
		ID:            o.ID,
		UserID:        o.UserID,
		Username:      o.Username,
		ProductType:   string(o.ProductType),
		ProductID:     o.ProductID,
		ProductName:   o.ProductName,
		Quantity:      o.Quantity,
		TotalPrice:    o.TotalPrice,
		Status:        string(o.Status),
		RefID:         nullable(o.RefID),
		TransactionID: o.TransactionID,
		VoucherCode:   o.VoucherCode,
		Target:        o.Target,
		Note:          o.Note,
		Reason:        o.Reason,
		CreatedAt:     o.CreatedAt,
		CompletedAt:   o.CompletedAt,
	}
	if o.ServerDetails != nil {
		raw, err := json.Marshal(o.ServerDetails)
		if err != nil {
			return m, fmt.Errorf("%w: encoding server details: %s", errs.ErrInternalServer, err.Error())
		}
		m.ServerDetails = datatypes.JSON(raw)
	}
	return m, nil
}

func (r *OrderRepository) modelToEntity(m *model.Order) *entity.Order {
	o := &entity.Order{
		ID:            m.ID,
		UserID:        m.UserID,
		Username:      m.Username,
		ProductType:   entity.ProductType(m.ProductType),
		ProductID:     m.ProductID,
		ProductName:   m.ProductName,
		Quantity:      m.Quantity,
		TotalPrice:    m.TotalPrice,
		Status:        entity.OrderStatus(m.Status),
		RefID:         deref(m.RefID),
		TransactionID: m.TransactionID,
		VoucherCode:   m.VoucherCode,
		Target:        m.Target,
		Note:          m.Note,
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt,
		CompletedAt:   m.CompletedAt,
	}
	if len(m.ServerDetails) > 0 && string(m.ServerDetails) != "null" {
		var details entity.ServerDetails
		if err := json.Unmarshal(m.ServerDetails, &details); err != nil {
			r.logger.Warn("Unreadable server details", map[string]any{
				"orderId": m.ID,
				"error":   err.Error(),
			})
		} else {
			o.ServerDetails = &details
		}
	}
	return o
}

// Create stores a new order
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	m, err := r.entityToModel(order)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if r.errorClassifier.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: order %s or refId %s already exists", errs.ErrInvalidRequest, order.ID, order.RefID)
		}
		return r.errorClassifier.mapError(err, errs.ErrOrderNotFound)
	}
	return nil
}

// Update persists every mutable field of the order
func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	m, err := r.entityToModel(order)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":         m.Status,
			"ref_id":         m.RefID,
			"transaction_id": m.TransactionID,
			"note":           m.Note,
			"reason":         m.Reason,
			"server_details": m.ServerDetails,
			"completed_at":   m.CompletedAt,
		})
	if result.Error != nil {
		return r.errorClassifier.mapError(result.Error, errs.ErrOrderNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) first(ctx context.Context, db *gorm.DB, query string, arg any) (*entity.Order, error) {
	var m model.Order
	if err := db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrOrderNotFound)
	}
	return r.modelToEntity(&m), nil
}

// GetByID retrieves an order
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.first(ctx, r.db, "id = ?", id)
}

// GetByIDForUpdate retrieves an order with a row lock
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.first(ctx, forUpdate(r.db), "id = ?", id)
}

// GetByRefIDForUpdate finds the order a provider callback refers to, locked
func (r *OrderRepository) GetByRefIDForUpdate(ctx context.Context, refID string) (*entity.Order, error) {
	if refID == "" {
		return nil, errs.ErrOrderNotFound
	}
	return r.first(ctx, forUpdate(r.db), "ref_id = ?", refID)
}

func (r *OrderRepository) list(db *gorm.DB) ([]*entity.Order, error) {
	var models []model.Order
	if err := db.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrOrderNotFound)
	}
	list := make([]*entity.Order, 0, len(models))
	for i := range models {
		list = append(list, r.modelToEntity(&models[i]))
	}
	return list, nil
}

// ListByUser returns the newest orders first
func (r *OrderRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Order, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID).Limit(capLimit(limit)))
}

// ListByTypeAndStatus feeds the expiry sweeper
func (r *OrderRepository) ListByTypeAndStatus(ctx context.Context, productType entity.ProductType, status entity.OrderStatus) ([]*entity.Order, error) {
	return r.list(r.db.WithContext(ctx).Where("product_type = ? AND status = ?", string(productType), string(status)))
}

var _ persistence.OrderRepository = (*OrderRepository)(nil)

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/model"
)

// TransactionRepository implements TransactionRepository interface using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(t *entity.Transaction) model.Transaction {
	return model.Transaction{
		ID:            t.ID,
		UserID:        t.UserID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		Status:        string(t.Status),
		RefID:         nullable(t.RefID),
		Description:   t.Description,
		PaymentMethod: t.PaymentMethod,
		ProductID:     t.ProductID,
		CreatedAt:     t.CreatedAt,
		ProcessedAt:   t.ProcessedAt,
	}
}

// modelToEntity converts a database model to a transaction entity
func (r *TransactionRepository) modelToEntity(m *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:            m.ID,
		UserID:        m.UserID,
		Type:          entity.TransactionType(m.Type),
		Amount:        m.Amount,
		Status:        entity.TransactionStatus(m.Status),
		RefID:         deref(m.RefID),
		Description:   m.Description,
		PaymentMethod: m.PaymentMethod,
		ProductID:     m.ProductID,
		CreatedAt:     m.CreatedAt,
		ProcessedAt:   m.ProcessedAt,
	}
}

// Create appends a ledger record. A refId conflict is resolved with ON CONFLICT DO NOTHING
// so it never aborts the enclosing transaction.
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	m := r.entityToModel(transaction)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "ref_id"}}, DoNothing: true}).
		Create(&m)

	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			return errs.ErrDuplicateRefID
		}
		r.logger.Error("Failed to create transaction", map[string]any{
			"refId":  transaction.RefID,
			"userId": transaction.UserID,
			"error":  result.Error.Error(),
		})
		return r.errorClassifier.mapError(result.Error, errs.ErrTransactionNotFound)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("Duplicate refId rejected", map[string]any{
			"refId":  transaction.RefID,
			"userId": transaction.UserID,
		})
		return errs.ErrDuplicateRefID
	}
	return nil
}

// Update persists status, processedAt and description
func (r *TransactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]any{
			"status":       string(transaction.Status),
			"processed_at": transaction.ProcessedAt,
			"description":  transaction.Description,
		})

	if result.Error != nil {
		return r.errorClassifier.mapError(result.Error, errs.ErrTransactionNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) getByRefID(ctx context.Context, db *gorm.DB, refID string) (*entity.Transaction, error) {
	if refID == "" {
		return nil, errs.ErrTransactionNotFound
	}
	var m model.Transaction
	if err := db.WithContext(ctx).Where("ref_id = ?", refID).First(&m).Error; err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrTransactionNotFound)
	}
	return r.modelToEntity(&m), nil
}

// GetByRefID retrieves a record by its external correlation key
func (r *TransactionRepository) GetByRefID(ctx context.Context, refID string) (*entity.Transaction, error) {
	return r.getByRefID(ctx, r.db, refID)
}

// GetByRefIDForUpdate is GetByRefID with a row lock
func (r *TransactionRepository) GetByRefIDForUpdate(ctx context.Context, refID string) (*entity.Transaction, error) {
	return r.getByRefID(ctx, forUpdate(r.db), refID)
}

// ListByUser returns the newest records first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Transaction, error) {
	var models []model.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(capLimit(limit)).
		Find(&models).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrTransactionNotFound)
	}

	list := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		list = append(list, r.modelToEntity(&models[i]))
	}
	return list, nil
}

// SumCompleted returns the sum of completed amounts for a user
func (r *TransactionRepository) SumCompleted(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND status = ?", userID, string(entity.TxCompleted)).
		Scan(&sum).Error
	if err != nil {
		return 0, r.errorClassifier.mapError(err, errs.ErrTransactionNotFound)
	}
	return sum, nil
}

var _ persistence.TransactionRepository = (*TransactionRepository)(nil)

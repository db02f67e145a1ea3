package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/model"
)

// UserRepository implements UserRepository interface using GORM
type UserRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a user model to an entity
func (r *UserRepository) modelToEntity(m *model.User) *entity.User {
	return entity.RestoreUser(m.ID, m.Username, m.Email, entity.Role(m.Role), m.Balance,
		m.ReferralCode, m.ReferredBy, m.CreatedAt, m.UpdatedAt)
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, userID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrUserNotFound
	}
	if r.errorClassifier.IsDuplicateKeyError(err) {
		return errs.ErrDuplicateUser
	}
	if r.errorClassifier.IsConstraintError(err) {
		// chk_users_balance: the balance would go negative
		return errs.ErrInsufficientFunds
	}

	r.logger.Error("Database error when "+operation, map[string]any{
		"userId": userID,
		"error":  err.Error(),
	})
	return r.errorClassifier.mapError(err, errs.ErrUserNotFound)
}

func (r *UserRepository) get(ctx context.Context, db *gorm.DB, id string) (*entity.User, error) {
	var m model.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, r.handleDatabaseError("getting user", err, id)
	}
	return r.modelToEntity(&m), nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.get(ctx, r.db, id)
}

// GetByIDForUpdate retrieves a user and holds its row lock until the transaction ends
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.get(ctx, forUpdate(r.db), id)
}

// GetByReferralCode finds the owner of a referral code
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errs.ErrUserNotFound
	}

	var m model.User
	err := r.db.WithContext(ctx).Where("UPPER(referral_code) = ?", strings.ToUpper(code)).First(&m).Error
	if err != nil {
		return nil, r.handleDatabaseError("getting user by referral code", err, "")
	}
	return r.modelToEntity(&m), nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	m := model.User{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         string(user.Role),
		Balance:      user.Balance(),
		ReferralCode: user.ReferralCode,
		ReferredBy:   user.ReferredBy,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("creating user", err, user.ID)
	}

	r.logger.Info("User created", map[string]any{
		"userId":   user.ID,
		"username": user.Username,
	})
	return nil
}

// UpdateBalance persists a balance computed under the row lock
func (r *UserRepository) UpdateBalance(ctx context.Context, id string, balance int64) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"balance":    balance,
			"updated_at": r.timeProvider.Now(),
		})

	if result.Error != nil {
		return r.handleDatabaseError("updating balance", result.Error, id)
	}
	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

// Delete removes a user together with their ledger
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		return r.handleDatabaseError("deleting user", result.Error, id)
	}
	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}

	r.logger.Info("User deleted", map[string]any{"userId": id})
	return nil
}

var _ persistence.UserRepository = (*UserRepository)(nil)

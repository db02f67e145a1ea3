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

// NotificationRepository implements the user inbox using GORM
type NotificationRepository struct {
	db              *gorm.DB
	errorClassifier *ErrorClassifier
}

// NewNotificationRepository creates a new NotificationRepository instance
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db, errorClassifier: NewErrorClassifier()}
}

// Create stores a notification
func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	m := model.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Severity:  string(n.Severity),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	return r.errorClassifier.mapError(r.db.WithContext(ctx).Create(&m).Error, errs.ErrNotFound)
}

// ListByUser returns the newest notifications first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	var models []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(capLimit(limit)).
		Find(&models).Error
	if err != nil {
		return nil, r.errorClassifier.mapError(err, errs.ErrNotFound)
	}

	list := make([]*entity.Notification, 0, len(models))
	for _, m := range models {
		list = append(list, &entity.Notification{
			ID:        m.ID,
			UserID:    m.UserID,
			Title:     m.Title,
			Message:   m.Message,
			Severity:  entity.Severity(m.Severity),
			IsRead:    m.IsRead,
			CreatedAt: m.CreatedAt,
		})
	}
	return list, nil
}

// MarkerRepository records one-shot events
type MarkerRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	errorClassifier *ErrorClassifier
}

// NewMarkerRepository creates a new MarkerRepository instance
func NewMarkerRepository(db *gorm.DB, timeProvider coreport.TimeProvider) *MarkerRepository {
	return &MarkerRepository{db: db, timeProvider: timeProvider, errorClassifier: NewErrorClassifier()}
}

// MarkOnce inserts key and reports whether this call created it
func (r *MarkerRepository) MarkOnce(ctx context.Context, key string) (bool, error) {
	m := model.NotificationMarker{Key: key, CreatedAt: r.timeProvider.Now()}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if result.Error != nil {
		return false, r.errorClassifier.mapError(result.Error, errs.ErrNotFound)
	}
	return result.RowsAffected == 1, nil
}

var (
	_ persistence.NotificationRepository = (*NotificationRepository)(nil)
	_ persistence.MarkerRepository       = (*MarkerRepository)(nil)
)

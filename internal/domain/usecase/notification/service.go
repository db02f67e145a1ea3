package notification

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

// DefaultLimit caps inbox reads when the caller does not
const DefaultLimit = 50

// Service reads the user inbox
type Service struct {
	users         persistence.UnitOfWork
	notifications persistence.NotificationRepository
}

// NewService creates a new inbox service
func NewService(uow persistence.UnitOfWork, notifications persistence.NotificationRepository) *Service {
	return &Service{users: uow, notifications: notifications}
}

// ListNotifications returns the newest notifications of an existing user
func (s *Service) ListNotifications(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	if _, err := s.users.GetUserRepository(ctx).GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	return s.notifications.ListByUser(ctx, userID, limit)
}

var _ usecase.NotificationUseCase = (*Service)(nil)

package persistence

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

// NotificationRepository stores the user inbox
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
}

// MarkerRepository records one-shot events such as expiry warnings
type MarkerRepository interface {
	// MarkOnce stores key and reports true only for the first caller
	MarkOnce(ctx context.Context, key string) (bool, error)
}

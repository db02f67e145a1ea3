// Package notifier delivers user and operator notifications
package notifier

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
)

// Inbox stores user notifications so they show up in the user's inbox
type Inbox struct {
	repo         persistence.NotificationRepository
	timeProvider core.TimeProvider
	logger       core.Logger
}

// NewInbox creates an inbox notifier
func NewInbox(repo persistence.NotificationRepository, timeProvider core.TimeProvider, logger core.Logger) *Inbox {
	return &Inbox{repo: repo, timeProvider: timeProvider, logger: logger}
}

// NotifyUser writes the notification to the inbox
func (n *Inbox) NotifyUser(ctx context.Context, userID, title, message string, severity entity.Severity) {
	err := n.repo.Create(ctx, &entity.Notification{
		ID:        entity.NewID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Severity:  severity,
		CreatedAt: n.timeProvider.Now(),
	})
	if err != nil {
		n.logger.Error("Failed to store notification", map[string]any{
			"userId": userID,
			"title":  title,
			"error":  err.Error(),
		})
	}
}

// NotifyOperator is not stored; operators read the log or Telegram
func (n *Inbox) NotifyOperator(_ context.Context, message string) {
	n.logger.Info("Operator notification", map[string]any{"message": message})
}

// Multi fans every notification out to several notifiers in order
type Multi []gateway.Notifier

// NotifyUser forwards to every notifier
func (m Multi) NotifyUser(ctx context.Context, userID, title, message string, severity entity.Severity) {
	for _, n := range m {
		n.NotifyUser(ctx, userID, title, message, severity)
	}
}

// NotifyOperator forwards to every notifier
func (m Multi) NotifyOperator(ctx context.Context, message string) {
	for _, n := range m {
		n.NotifyOperator(ctx, message)
	}
}

var (
	_ gateway.Notifier = (*Inbox)(nil)
	_ gateway.Notifier = Multi(nil)
)

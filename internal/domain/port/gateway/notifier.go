package gateway

import (
	"context"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

// Notifier delivers messages to users and to the operator.
// Delivery is fire-and-forget: implementations log failures and never return them.
type Notifier interface {
	NotifyUser(ctx context.Context, userID, title, message string, severity entity.Severity)
	NotifyOperator(ctx context.Context, message string)
}

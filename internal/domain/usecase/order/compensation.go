package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

// refundRefID is the refId of the refund for an order. The unique refId
// constraint makes a second refund for the same order impossible.
func refundRefID(key string) string {
	return "REF" + key
}

// refundKey is the correlation key a refund is derived from
func refundKey(order *entity.Order) string {
	if order.ProductType == entity.ProductTypeDigital && order.RefID != "" {
		return order.RefID
	}
	return order.ID
}

// cancelAndRefund cancels a locked order and credits back what was debited.
// It must run inside a unit of work. Returns the refunded amount.
func (s *Service) cancelAndRefund(ctx context.Context, order *entity.Order, reason string) (int64, error) {
	if order.Status == entity.OrderCancelled {
		return 0, nil
	}
	if err := order.Cancel(reason, s.timeProvider); err != nil {
		return 0, err
	}
	if err := s.uow.GetOrderRepository(ctx).Update(ctx, order); err != nil {
		return 0, err
	}
	if order.TotalPrice <= 0 || order.TransactionID == "" {
		return 0, nil
	}

	_, err := s.ledger.Credit(ctx, usecase.LedgerEntry{
		UserID:      order.UserID,
		Amount:      order.TotalPrice,
		Type:        entity.TypeRefund,
		Description: fmt.Sprintf("Refund %s: %s", order.ProductName, reason),
		RefID:       refundRefID(refundKey(order)),
		ProductID:   order.ProductID,
	})
	if errors.Is(err, errs.ErrDuplicateRefID) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return order.TotalPrice, nil
}

// compensate runs the failure path for an order whose collaborator call failed.
// It refunds in its own unit on a context that outlives the caller's deadline.
func (s *Service) compensate(ctx context.Context, orderID string, cause error) error {
	ctx = context.WithoutCancel(ctx)
	reason := "Provisioning failed: " + cause.Error()

	var (
		order    *entity.Order
		refunded int64
	)
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.uow.GetOrderRepository(ctx).GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		refunded, err = s.cancelAndRefund(ctx, order, reason)
		return err
	})
	if err != nil {
		s.logger.Error("Compensation failed, manual refund required", map[string]any{
			"orderId": orderID,
			"cause":   cause.Error(),
			"error":   err.Error(),
		})
		s.notifier.NotifyOperator(ctx, fmt.Sprintf("<b>Refund gagal</b>\nOrder: %s\nError: %s", orderID, err.Error()))
		return errors.Join(errs.NewProvisioningError(orderID, "", 0, cause), err)
	}

	s.logger.Warn("Order compensated", map[string]any{
		"orderId":  order.ID,
		"userId":   order.UserID,
		"refunded": refunded,
		"cause":    cause.Error(),
	})
	s.notifier.NotifyUser(ctx, order.UserID, "Pesanan gagal",
		fmt.Sprintf("Pesanan %s gagal diproses. Saldo %s telah dikembalikan.", order.ProductName, entity.FormatRupiah(refunded)),
		entity.SeverityDanger)
	s.notifier.NotifyOperator(ctx, fmt.Sprintf("<b>Pesanan gagal</b>\nOrder: %s\nUser: %s\nRefund: %s\nError: %s",
		order.ID, order.Username, entity.FormatRupiah(refunded), cause.Error()))

	return errs.NewProvisioningError(order.ID, order.UserID, refunded, cause)
}

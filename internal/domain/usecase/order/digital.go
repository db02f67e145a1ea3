package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

// digitalRefID is the provider correlation key of a top-up
func (s *Service) digitalRefID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(entity.NewID(), "-", "")[:4])
	return fmt.Sprintf("DIGI%d%s", s.timeProvider.Now().UnixMilli(), suffix)
}

// PurchaseDigital sells a prepaid SKU at the marked-up price list price
func (s *Service) PurchaseDigital(ctx context.Context, req usecase.DigitalPurchaseRequest) (*entity.Order, error) {
	if strings.TrimSpace(req.Target) == "" {
		return nil, fmt.Errorf("%w: target is required", errs.ErrInvalidRequest)
	}

	list, err := s.catalog.DigitalProducts(ctx)
	if err != nil {
		return nil, err
	}
	product, ok := entity.FindDigitalProduct(list, req.SKU)
	if !ok {
		return nil, errs.ErrProductNotFound
	}
	if !product.Available {
		return nil, errs.ErrProductInactive
	}

	refID := s.digitalRefID()
	var order *entity.Order
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		user, err := s.loadUser(ctx, req.UserID)
		if err != nil {
			return err
		}

		order = entity.NewOrder(user.ID, user.Username, entity.ProductTypeDigital, product.SKU, product.Name, 1, product.Price, s.timeProvider)
		order.RefID = refID
		order.Target = req.Target

		debit, err := s.ledger.Debit(ctx, usecase.LedgerEntry{
			UserID:      user.ID,
			Amount:      product.Price,
			Type:        entity.TypePurchase,
			Description: fmt.Sprintf("Top up %s ke %s", product.Name, req.Target),
			RefID:       refID,
			ProductID:   product.SKU,
		})
		if err != nil {
			return err
		}
		order.TransactionID = debit.Transaction.ID
		if err := order.TransitionTo(entity.OrderProcessing, s.timeProvider); err != nil {
			return err
		}
		return s.uow.GetOrderRepository(ctx).Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	callCtx, cancel := s.withTimeout(ctx)
	result, err := s.digital.PlaceOrder(callCtx, refID, req.Target, product.SKU)
	cancel()
	if err != nil {
		return nil, s.compensate(ctx, order.ID, errs.NewExternalError("digiflazz", "placeOrder", err))
	}

	s.notifier.NotifyOperator(ctx, fmt.Sprintf("<b>Top up baru</b>\nProduk: %s\nTujuan: %s\nUser: %s\nStatus: %s",
		product.Name, req.Target, order.Username, result.Status))

	if result.Status == gateway.DigitalFailure {
		return nil, s.compensate(ctx, order.ID, fmt.Errorf("%w: %s", errs.ErrExternalService, result.Message))
	}

	return s.ReconcileDigital(ctx, usecase.DigitalCallback{
		RefID:        refID,
		Status:       string(result.Status),
		Message:      result.Message,
		SerialNumber: result.SerialNumber,
	})
}

// ReconcileDigital converges an order with the provider's reported status.
// A failure cancels the order and refunds it within the same unit.
func (s *Service) ReconcileDigital(ctx context.Context, cb usecase.DigitalCallback) (*entity.Order, error) {
	status := gateway.ParseDigitalStatus(cb.Status)

	var (
		order     *entity.Order
		duplicate bool
		refunded  int64
	)
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		duplicate, refunded = false, 0
		orders := s.uow.GetOrderRepository(ctx)

		var err error
		order, err = orders.GetByRefIDForUpdate(ctx, cb.RefID)
		if err != nil {
			return err
		}
		// OTP orders keep the provider id in the same column
		if order.ProductType != entity.ProductTypeDigital {
			return errs.ErrOrderNotFound
		}
		if order.Status.IsFinal() {
			duplicate = true
			return nil
		}

		switch status {
		case gateway.DigitalSuccess:
			order.Note = digitalNote(cb)
			if err := order.Complete(s.timeProvider); err != nil {
				return err
			}
			return orders.Update(ctx, order)
		case gateway.DigitalFailure:
			reason := "Provider gagal"
			if cb.Message != "" {
				reason += ": " + cb.Message
			}
			refunded, err = s.cancelAndRefund(ctx, order, reason)
			return err
		default:
			if order.Status == entity.OrderPending {
				if err := order.TransitionTo(entity.OrderProcessing, s.timeProvider); err != nil {
					return err
				}
			}
			order.Note = cb.Message
			return orders.Update(ctx, order)
		}
	})
	if err != nil {
		s.logger.Error("Failed to reconcile digital order", map[string]any{
			"refId":  cb.RefID,
			"status": cb.Status,
			"error":  err.Error(),
		})
		return nil, err
	}

	if duplicate {
		s.logger.Info("Ignoring callback for finished order", map[string]any{
			"refId":  cb.RefID,
			"status": order.Status,
		})
		return order, nil
	}

	s.logger.Info("Digital order reconciled", map[string]any{
		"refId":    cb.RefID,
		"orderId":  order.ID,
		"status":   order.Status,
		"refunded": refunded,
	})

	switch order.Status {
	case entity.OrderCompleted:
		s.notifier.NotifyUser(ctx, order.UserID, "Top up berhasil",
			fmt.Sprintf("%s ke %s berhasil. SN: %s", order.ProductName, order.Target, cb.SerialNumber), entity.SeveritySuccess)
	case entity.OrderCancelled:
		s.notifier.NotifyUser(ctx, order.UserID, "Top up gagal",
			fmt.Sprintf("%s ke %s gagal. Saldo %s telah dikembalikan.", order.ProductName, order.Target, entity.FormatRupiah(refunded)),
			entity.SeverityDanger)
	}
	return order, nil
}

func digitalNote(cb usecase.DigitalCallback) string {
	if cb.SerialNumber == "" {
		return cb.Message
	}
	return "SN: " + cb.SerialNumber
}

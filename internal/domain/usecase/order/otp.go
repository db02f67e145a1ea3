package order

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

// PurchaseOTP rents a number. The debit and a processing order commit before
// the provider is asked for the number; a provider failure is refunded.
func (s *Service) PurchaseOTP(ctx context.Context, req usecase.OTPPurchaseRequest) (*entity.Order, error) {
	if req.ServiceID == "" || req.NumberID == "" || req.ProviderID == "" {
		return nil, fmt.Errorf("%w: service, number and provider are required", errs.ErrInvalidRequest)
	}

	quoteCtx, cancel := s.withTimeout(ctx)
	quote, err := s.otp.Quote(quoteCtx, req.ServiceID, req.NumberID, req.ProviderID)
	cancel()
	if err != nil {
		return nil, errs.NewExternalError("otp", "quote", err)
	}
	price := entity.MarkupPrice(quote, s.cfg.OTPProfitPercent)

	var order *entity.Order
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		user, err := s.loadUser(ctx, req.UserID)
		if err != nil {
			return err
		}

		order = entity.NewOrder(user.ID, user.Username, entity.ProductTypeOTP, req.ServiceID, "OTP "+req.ServiceID, 1, price, s.timeProvider)
		debit, err := s.ledger.Debit(ctx, usecase.LedgerEntry{
			UserID:      user.ID,
			Amount:      price,
			Type:        entity.TypePurchase,
			Description: "Pembelian nomor OTP " + req.ServiceID,
			ProductID:   req.ServiceID,
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

	createCtx, cancel := s.withTimeout(ctx)
	number, err := s.otp.CreateOrder(createCtx, req.NumberID, req.ProviderID, req.OperatorID)
	cancel()
	if err != nil {
		return nil, s.compensate(ctx, order.ID, errs.NewExternalError("otp", "createOrder", err))
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		orders := s.uow.GetOrderRepository(ctx)
		locked, err := orders.GetByIDForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		locked.RefID = number.ID
		locked.Target = number.Phone
		order = locked
		return orders.Update(ctx, locked)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("OTP number rented", map[string]any{
		"orderId": order.ID,
		"userId":  order.UserID,
		"refId":   number.ID,
		"amount":  price,
	})
	return order, nil
}

// OTPStatus polls the provider. A received code completes the order; a
// provider-side cancellation is refunded.
func (s *Service) OTPStatus(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	order, err := s.getOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.ProductType != entity.ProductTypeOTP {
		return nil, errs.ErrOrderNotFound
	}
	if order.Status.IsFinal() || order.RefID == "" {
		return order, nil
	}

	callCtx, cancel := s.withTimeout(ctx)
	status, err := s.otp.GetStatus(callCtx, order.RefID)
	cancel()
	if err != nil {
		return nil, errs.NewExternalError("otp", "getStatus", err)
	}

	switch status.State {
	case gateway.OTPReceived:
		return s.completeOTP(ctx, orderID, status.Code)
	case gateway.OTPCanceled:
		return s.refundOTP(ctx, orderID, "Dibatalkan oleh provider")
	default:
		return order, nil
	}
}

// CancelOTP asks the provider to release the number and refunds on success
func (s *Service) CancelOTP(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	order, err := s.getOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.ProductType != entity.ProductTypeOTP {
		return nil, errs.ErrOrderNotFound
	}
	if order.Status.IsFinal() {
		return nil, errs.NewTransitionError("order", order.ID, string(order.Status), string(entity.OrderCancelled))
	}

	if order.RefID != "" {
		callCtx, cancel := s.withTimeout(ctx)
		err = s.otp.Cancel(callCtx, order.RefID)
		cancel()
		if err != nil {
			return nil, errs.NewExternalError("otp", "cancel", err)
		}
	}
	return s.refundOTP(ctx, orderID, "Dibatalkan oleh user")
}

func (s *Service) completeOTP(ctx context.Context, orderID, code string) (*entity.Order, error) {
	var order *entity.Order
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		orders := s.uow.GetOrderRepository(ctx)
		var err error
		order, err = orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status.IsFinal() {
			return nil
		}
		order.Note = code
		if err := order.Complete(s.timeProvider); err != nil {
			return err
		}
		return orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) refundOTP(ctx context.Context, orderID, reason string) (*entity.Order, error) {
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
		if order.Status.IsFinal() {
			refunded = 0
			return nil
		}
		refunded, err = s.cancelAndRefund(ctx, order, reason)
		return err
	})
	if err != nil {
		return nil, err
	}

	if refunded > 0 {
		s.notifier.NotifyUser(ctx, order.UserID, "OTP dibatalkan",
			fmt.Sprintf("Pesanan OTP dibatalkan. Saldo %s telah dikembalikan.", entity.FormatRupiah(refunded)), entity.SeverityInfo)
	}
	return order, nil
}

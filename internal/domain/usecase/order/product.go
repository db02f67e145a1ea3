package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

// priceWithVoucher applies a voucher code to basePrice and consumes one use.
// Must run inside a unit of work; the voucher row stays locked until it ends.
func (s *Service) priceWithVoucher(ctx context.Context, code string, basePrice int64) (int64, error) {
	if code == "" {
		return basePrice, nil
	}

	vouchers := s.uow.GetVoucherRepository(ctx)
	voucher, err := vouchers.GetByCodeForUpdate(ctx, code)
	if err != nil {
		if errors.Is(err, errs.ErrVoucherNotFound) {
			return 0, errs.NewInvalidVoucherError(entity.NormalizeVoucherCode(code), "not found")
		}
		return 0, err
	}
	if err := voucher.Check(basePrice, s.timeProvider.Now()); err != nil {
		return 0, err
	}
	if err := vouchers.IncrementUsage(ctx, voucher.ID); err != nil {
		return 0, err
	}
	return voucher.Apply(basePrice), nil
}

// PurchaseProduct sells stocked items. Stock, voucher usage, the debit and the
// order commit together or not at all.
func (s *Service) PurchaseProduct(ctx context.Context, req usecase.ProductPurchaseRequest) (*entity.Order, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", errs.ErrInvalidRequest)
	}

	var order *entity.Order
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		user, err := s.loadUser(ctx, req.UserID)
		if err != nil {
			return err
		}

		catalog := s.uow.GetCatalogRepository(ctx)
		product, err := catalog.GetProductForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if err := product.CheckAvailable(req.Quantity); err != nil {
			return err
		}

		total, err := s.priceWithVoucher(ctx, req.VoucherCode, product.Price*int64(req.Quantity))
		if err != nil {
			return err
		}
		if err := catalog.DecrementStock(ctx, product.ID, req.Quantity); err != nil {
			return err
		}

		order = entity.NewOrder(user.ID, user.Username, entity.ProductTypeProduct, product.ID, product.Name, req.Quantity, total, s.timeProvider)
		order.VoucherCode = entity.NormalizeVoucherCode(req.VoucherCode)
		if total > 0 {
			debit, err := s.ledger.Debit(ctx, usecase.LedgerEntry{
				UserID:      user.ID,
				Amount:      total,
				Type:        entity.TypePurchase,
				Description: fmt.Sprintf("Pembelian %s x%d", product.Name, req.Quantity),
				ProductID:   product.ID,
			})
			if err != nil {
				return err
			}
			order.TransactionID = debit.Transaction.ID
		}
		if err := order.Complete(s.timeProvider); err != nil {
			return err
		}
		return s.uow.GetOrderRepository(ctx).Create(ctx, order)
	})
	if err != nil {
		s.logger.Warn("Product purchase rejected", map[string]any{
			"userId":    req.UserID,
			"productId": req.ProductID,
			"error":     err.Error(),
		})
		return nil, err
	}

	s.catalog.InvalidateProducts(ctx)
	s.logger.Info("Product purchased", map[string]any{
		"orderId":   order.ID,
		"userId":    order.UserID,
		"productId": order.ProductID,
		"amount":    order.TotalPrice,
	})
	s.notifier.NotifyOperator(ctx, fmt.Sprintf("<b>Pesanan baru</b>\nProduk: %s x%d\nUser: %s\nTotal: %s",
		order.ProductName, order.Quantity, order.Username, entity.FormatRupiah(order.TotalPrice)))
	return order, nil
}

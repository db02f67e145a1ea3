package order

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// panelUsername derives a unique panel login from the marketplace username
func panelUsername(username string) string {
	base := nonAlnum.ReplaceAllString(strings.ToLower(username), "")
	if len(base) > 16 {
		base = base[:16]
	}
	if base == "" {
		base = "user"
	}
	return base + strings.ReplaceAll(entity.NewID(), "-", "")[:4]
}

func generatePassword() string {
	return strings.ReplaceAll(entity.NewID(), "-", "")[:12]
}

// PurchaseServer rents a server. The debit commits before the panel is called;
// any panel failure cancels the order and refunds the debit.
func (s *Service) PurchaseServer(ctx context.Context, req usecase.ServerPurchaseRequest) (*entity.Order, error) {
	term, err := entity.ParseServerTerm(req.Term)
	if err != nil {
		return nil, err
	}

	plan, err := s.uow.GetCatalogRepository(ctx).GetServerPlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, errs.ErrProductInactive
	}
	price := term.Price(plan.Price)

	var order *entity.Order
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		user, err := s.loadUser(ctx, req.UserID)
		if err != nil {
			return err
		}

		order = entity.NewOrder(user.ID, user.Username, entity.ProductTypeServer, plan.ID, plan.Name, 1, price, s.timeProvider)
		order.ServerDetails = &entity.ServerDetails{
			RAM:      plan.RAM,
			CPU:      plan.CPU,
			Disk:     plan.Disk,
			Location: plan.Location,
			Duration: term.Label(),
		}

		debit, err := s.ledger.Debit(ctx, usecase.LedgerEntry{
			UserID:      user.ID,
			Amount:      price,
			Type:        entity.TypePurchase,
			Description: fmt.Sprintf("Sewa server %s (%s)", plan.Name, term.Label()),
			ProductID:   plan.ID,
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

	s.logger.Info("Server order created, provisioning", map[string]any{
		"orderId": order.ID,
		"userId":  order.UserID,
		"planId":  plan.ID,
		"amount":  price,
	})

	details, err := s.provision(ctx, order, plan)
	if err != nil {
		return nil, s.compensate(ctx, order.ID, err)
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		orders := s.uow.GetOrderRepository(ctx)
		locked, err := orders.GetByIDForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		locked.ServerDetails = details
		if err := locked.Complete(s.timeProvider); err != nil {
			return err
		}
		order = locked
		return orders.Update(ctx, locked)
	})
	if err != nil {
		s.logger.Error("Server provisioned but order not completed", map[string]any{
			"orderId":    order.ID,
			"resourceId": details.PanelResourceID,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.notifier.NotifyUser(ctx, order.UserID, "Server aktif",
		fmt.Sprintf("Server %s siap digunakan. Login: %s", order.ProductName, details.PanelURL), entity.SeveritySuccess)
	s.notifier.NotifyOperator(ctx, fmt.Sprintf("<b>Server baru</b>\nPaket: %s (%s)\nUser: %s\nTotal: %s",
		order.ProductName, details.Duration, order.Username, entity.FormatRupiah(order.TotalPrice)))
	return order, nil
}

// provision creates the panel account and the server. A half-created account
// is deleted best-effort before the error is returned.
func (s *Service) provision(ctx context.Context, order *entity.Order, plan *entity.ServerPlan) (*entity.ServerDetails, error) {
	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	username := panelUsername(order.Username)
	account, err := s.panel.CreateAccount(callCtx, gateway.AccountSpec{
		Username:  username,
		Email:     username + "@" + s.cfg.PanelUserDomain,
		FirstName: order.Username,
		LastName:  "Server",
		Password:  generatePassword(),
	})
	if err != nil {
		return nil, errs.NewExternalError("panel", "createAccount", err)
	}

	resource, err := s.panel.CreateResource(callCtx, account, gateway.ResourceSpec{
		Name:     fmt.Sprintf("%s-%s", plan.Name, account.Username),
		RAM:      plan.RAM,
		Disk:     plan.Disk,
		CPU:      plan.CPU,
		Location: plan.Location,
	})
	if err != nil {
		s.deleteAccount(ctx, order.ID, account.ID)
		return nil, errs.NewExternalError("panel", "createResource", err)
	}

	details := *order.ServerDetails
	details.PanelAccountID = account.ID
	details.PanelResourceID = resource.ID
	details.PanelUsername = account.Username
	details.PanelPassword = account.Password
	details.PanelURL = s.panel.PanelURL()
	return &details, nil
}

// deleteAccount is a compensating call: failures are logged, never returned
func (s *Service) deleteAccount(ctx context.Context, orderID, accountID string) {
	callCtx, cancel := s.withTimeout(context.WithoutCancel(ctx))
	defer cancel()

	if err := s.panel.DeleteAccount(callCtx, accountID); err != nil {
		level := s.logger.Error
		if errors.Is(err, context.DeadlineExceeded) {
			level = s.logger.Warn
		}
		level("Failed to remove panel account after provisioning failure", map[string]any{
			"orderId":   orderID,
			"accountId": accountID,
			"error":     err.Error(),
		})
	}
}

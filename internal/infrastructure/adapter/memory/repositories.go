package memory

import (
	"context"
	"strings"
	"time"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
)

func copyUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func copyTransaction(t *entity.Transaction) *entity.Transaction {
	c := *t
	if t.ProcessedAt != nil {
		at := *t.ProcessedAt
		c.ProcessedAt = &at
	}
	return &c
}

func copyOrder(o *entity.Order) *entity.Order {
	c := *o
	if o.ServerDetails != nil {
		d := *o.ServerDetails
		c.ServerDetails = &d
	}
	if o.CompletedAt != nil {
		at := *o.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

func copyVoucher(v *entity.Voucher) *entity.Voucher {
	c := *v
	if v.ExpiresAt != nil {
		at := *v.ExpiresAt
		c.ExpiresAt = &at
	}
	return &c
}

type userRepository struct {
	store *Store
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var user *entity.User
	err := r.store.view(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return errs.ErrUserNotFound
		}
		user = copyUser(u)
		return nil
	})
	return user, err
}

// GetByIDForUpdate needs no extra locking: units of work are already serialized
func (r *userRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepository) GetByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	var user *entity.User
	err := r.store.view(ctx, func(st *state) error {
		for _, u := range st.users {
			if code != "" && strings.EqualFold(u.ReferralCode, code) {
				user = copyUser(u)
				return nil
			}
		}
		return errs.ErrUserNotFound
	})
	return user, err
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.store.update(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.ID == user.ID || strings.EqualFold(u.Username, user.Username) ||
				(user.Email != "" && strings.EqualFold(u.Email, user.Email)) {
				return errs.ErrDuplicateUser
			}
		}
		st.users[user.ID] = copyUser(user)
		return nil
	})
}

func (r *userRepository) UpdateBalance(ctx context.Context, id string, balance int64) error {
	return r.store.update(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return errs.ErrUserNotFound
		}
		st.users[id] = entity.RestoreUser(u.ID, u.Username, u.Email, u.Role, balance,
			u.ReferralCode, u.ReferredBy, u.CreatedAt, r.store.timeProvider.Now())
		return nil
	})
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.store.update(ctx, func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return errs.ErrUserNotFound
		}
		delete(st.users, id)
		return nil
	})
}

type transactionRepository struct {
	store *Store
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	return r.store.update(ctx, func(st *state) error {
		if txn.RefID != "" {
			if _, ok := st.txByRef[txn.RefID]; ok {
				return errs.ErrDuplicateRefID
			}
			st.txByRef[txn.RefID] = txn.ID
		}
		st.transactions[txn.ID] = copyTransaction(txn)
		return nil
	})
}

func (r *transactionRepository) Update(ctx context.Context, txn *entity.Transaction) error {
	return r.store.update(ctx, func(st *state) error {
		existing, ok := st.transactions[txn.ID]
		if !ok {
			return errs.ErrTransactionNotFound
		}
		updated := copyTransaction(existing)
		updated.Status = txn.Status
		updated.Description = txn.Description
		if txn.ProcessedAt != nil {
			at := *txn.ProcessedAt
			updated.ProcessedAt = &at
		}
		st.transactions[txn.ID] = updated
		return nil
	})
}

func (r *transactionRepository) GetByRefID(ctx context.Context, refID string) (*entity.Transaction, error) {
	var txn *entity.Transaction
	err := r.store.view(ctx, func(st *state) error {
		id, ok := st.txByRef[refID]
		if !ok || refID == "" {
			return errs.ErrTransactionNotFound
		}
		txn = copyTransaction(st.transactions[id])
		return nil
	})
	return txn, err
}

func (r *transactionRepository) GetByRefIDForUpdate(ctx context.Context, refID string) (*entity.Transaction, error) {
	return r.GetByRefID(ctx, refID)
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Transaction, error) {
	var list []*entity.Transaction
	err := r.store.view(ctx, func(st *state) error {
		for _, t := range st.transactions {
			if t.UserID == userID {
				list = append(list, copyTransaction(t))
			}
		}
		return nil
	})
	return newestFirst(list, func(t *entity.Transaction) time.Time { return t.CreatedAt }, limit), err
}

func (r *transactionRepository) SumCompleted(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := r.store.view(ctx, func(st *state) error {
		for _, t := range st.transactions {
			if t.UserID == userID && t.Status == entity.TxCompleted {
				sum += t.Amount
			}
		}
		return nil
	})
	return sum, err
}

type orderRepository struct {
	store *Store
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.store.update(ctx, func(st *state) error {
		st.orders[order.ID] = copyOrder(order)
		if order.RefID != "" {
			st.orderByRef[order.RefID] = order.ID
		}
		return nil
	})
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	return r.store.update(ctx, func(st *state) error {
		if _, ok := st.orders[order.ID]; !ok {
			return errs.ErrOrderNotFound
		}
		st.orders[order.ID] = copyOrder(order)
		if order.RefID != "" {
			st.orderByRef[order.RefID] = order.ID
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var order *entity.Order
	err := r.store.view(ctx, func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return errs.ErrOrderNotFound
		}
		order = copyOrder(o)
		return nil
	})
	return order, err
}

func (r *orderRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepository) GetByRefIDForUpdate(ctx context.Context, refID string) (*entity.Order, error) {
	var order *entity.Order
	err := r.store.view(ctx, func(st *state) error {
		id, ok := st.orderByRef[refID]
		if !ok || refID == "" {
			return errs.ErrOrderNotFound
		}
		order = copyOrder(st.orders[id])
		return nil
	})
	return order, err
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Order, error) {
	var list []*entity.Order
	err := r.store.view(ctx, func(st *state) error {
		for _, o := range st.orders {
			if o.UserID == userID {
				list = append(list, copyOrder(o))
			}
		}
		return nil
	})
	return newestFirst(list, func(o *entity.Order) time.Time { return o.CreatedAt }, limit), err
}

func (r *orderRepository) ListByTypeAndStatus(ctx context.Context, productType entity.ProductType, status entity.OrderStatus) ([]*entity.Order, error) {
	var list []*entity.Order
	err := r.store.view(ctx, func(st *state) error {
		for _, o := range st.orders {
			if o.ProductType == productType && o.Status == status {
				list = append(list, copyOrder(o))
			}
		}
		return nil
	})
	return newestFirst(list, func(o *entity.Order) time.Time { return o.CreatedAt }, 0), err
}

type voucherRepository struct {
	store *Store
}

func (r *voucherRepository) Create(ctx context.Context, voucher *entity.Voucher) error {
	return r.store.update(ctx, func(st *state) error {
		code := entity.NormalizeVoucherCode(voucher.Code)
		if _, ok := st.vouchers[code]; ok {
			return errs.ErrInvalidRequest
		}
		st.vouchers[code] = copyVoucher(voucher)
		return nil
	})
}

func (r *voucherRepository) GetByCode(ctx context.Context, code string) (*entity.Voucher, error) {
	var voucher *entity.Voucher
	err := r.store.view(ctx, func(st *state) error {
		v, ok := st.vouchers[entity.NormalizeVoucherCode(code)]
		if !ok {
			return errs.ErrVoucherNotFound
		}
		voucher = copyVoucher(v)
		return nil
	})
	return voucher, err
}

func (r *voucherRepository) GetByCodeForUpdate(ctx context.Context, code string) (*entity.Voucher, error) {
	return r.GetByCode(ctx, code)
}

func (r *voucherRepository) IncrementUsage(ctx context.Context, id string) error {
	return r.store.update(ctx, func(st *state) error {
		for code, v := range st.vouchers {
			if v.ID != id {
				continue
			}
			updated := copyVoucher(v)
			if err := updated.Redeem(); err != nil {
				return err
			}
			st.vouchers[code] = updated
			return nil
		}
		return errs.ErrVoucherNotFound
	})
}

type catalogRepository struct {
	store *Store
}

func (r *catalogRepository) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	var product *entity.Product
	err := r.store.view(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return errs.ErrProductNotFound
		}
		c := *p
		product = &c
		return nil
	})
	return product, err
}

func (r *catalogRepository) GetProductForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetProduct(ctx, id)
}

func (r *catalogRepository) ListProducts(ctx context.Context, activeOnly bool) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.store.view(ctx, func(st *state) error {
		for _, p := range st.products {
			if activeOnly && !p.IsActive {
				continue
			}
			c := *p
			list = append(list, &c)
		}
		return nil
	})
	sortByName(list, func(p *entity.Product) string { return p.Name })
	return list, err
}

func (r *catalogRepository) SaveProduct(ctx context.Context, product *entity.Product) error {
	return r.store.update(ctx, func(st *state) error {
		c := *product
		st.products[product.ID] = &c
		return nil
	})
}

func (r *catalogRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	return r.store.update(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return errs.ErrProductNotFound
		}
		if p.Stock < quantity {
			return errs.ErrOutOfStock
		}
		c := *p
		c.Stock -= quantity
		st.products[id] = &c
		return nil
	})
}

func (r *catalogRepository) GetServerPlan(ctx context.Context, id string) (*entity.ServerPlan, error) {
	var plan *entity.ServerPlan
	err := r.store.view(ctx, func(st *state) error {
		p, ok := st.plans[id]
		if !ok {
			return errs.ErrProductNotFound
		}
		c := *p
		plan = &c
		return nil
	})
	return plan, err
}

func (r *catalogRepository) ListServerPlans(ctx context.Context, activeOnly bool) ([]*entity.ServerPlan, error) {
	var list []*entity.ServerPlan
	err := r.store.view(ctx, func(st *state) error {
		for _, p := range st.plans {
			if activeOnly && !p.IsActive {
				continue
			}
			c := *p
			list = append(list, &c)
		}
		return nil
	})
	sortByName(list, func(p *entity.ServerPlan) string { return p.Name })
	return list, err
}

func (r *catalogRepository) SaveServerPlan(ctx context.Context, plan *entity.ServerPlan) error {
	return r.store.update(ctx, func(st *state) error {
		c := *plan
		st.plans[plan.ID] = &c
		return nil
	})
}

type notificationRepository struct {
	store *Store
}

func (r *notificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	return r.store.update(ctx, func(st *state) error {
		c := *n
		st.notifications = append(st.notifications, &c)
		return nil
	})
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	var list []*entity.Notification
	err := r.store.view(ctx, func(st *state) error {
		for _, n := range st.notifications {
			if n.UserID == userID {
				c := *n
				list = append(list, &c)
			}
		}
		return nil
	})
	return newestFirst(list, func(n *entity.Notification) time.Time { return n.CreatedAt }, limit), err
}

type markerRepository struct {
	store *Store
}

func (r *markerRepository) MarkOnce(ctx context.Context, key string) (bool, error) {
	first := false
	err := r.store.update(ctx, func(st *state) error {
		if _, ok := st.markers[key]; ok {
			return nil
		}
		st.markers[key] = r.store.timeProvider.Now()
		first = true
		return nil
	})
	return first, err
}

type resourceLockRepository struct {
	store *Store
}

func (r *resourceLockRepository) AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) error {
	return r.store.update(ctx, func(st *state) error {
		now := r.store.timeProvider.Now()
		if l, ok := st.locks[key]; ok && l.owner != owner && now.Before(l.expiresAt) {
			return errs.ErrLockHeld
		}
		st.locks[key] = lockEntry{owner: owner, expiresAt: now.Add(ttl)}
		return nil
	})
}

func (r *resourceLockRepository) ReleaseLock(ctx context.Context, key, owner string) error {
	return r.store.update(ctx, func(st *state) error {
		if l, ok := st.locks[key]; ok && l.owner == owner {
			delete(st.locks, key)
		}
		return nil
	})
}

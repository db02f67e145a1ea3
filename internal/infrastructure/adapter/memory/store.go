package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
)

type unitKey struct{}

type lockEntry struct {
	owner     string
	expiresAt time.Time
}

// state is one consistent snapshot of the ledger
type state struct {
	users         map[string]*entity.User
	transactions  map[string]*entity.Transaction
	txByRef       map[string]string
	orders        map[string]*entity.Order
	orderByRef    map[string]string
	vouchers      map[string]*entity.Voucher
	products      map[string]*entity.Product
	plans         map[string]*entity.ServerPlan
	notifications []*entity.Notification
	markers       map[string]time.Time
	locks         map[string]lockEntry
}

func newState() *state {
	return &state{
		users:        make(map[string]*entity.User),
		transactions: make(map[string]*entity.Transaction),
		txByRef:      make(map[string]string),
		orders:       make(map[string]*entity.Order),
		orderByRef:   make(map[string]string),
		vouchers:     make(map[string]*entity.Voucher),
		products:     make(map[string]*entity.Product),
		plans:        make(map[string]*entity.ServerPlan),
		markers:      make(map[string]time.Time),
		locks:        make(map[string]lockEntry),
	}
}

// clone copies the snapshot so a unit of work can be discarded on rollback.
// Records are copied on write by the repositories, so sharing pointers here is safe.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.txByRef {
		c.txByRef[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.orderByRef {
		c.orderByRef[k] = v
	}
	for k, v := range s.vouchers {
		c.vouchers[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.plans {
		c.plans[k] = v
	}
	c.notifications = append(c.notifications, s.notifications...)
	for k, v := range s.markers {
		c.markers[k] = v
	}
	for k, v := range s.locks {
		c.locks[k] = v
	}
	return c
}

// Store is an in-process ledger store. Units of work are serialized and run
// against a private copy of the state that replaces the committed state on success.
type Store struct {
	mu           sync.Mutex
	committed    *state
	timeProvider coreport.TimeProvider
}

// NewStore creates an empty store
func NewStore(timeProvider coreport.TimeProvider) *Store {
	return &Store{
		committed:    newState(),
		timeProvider: timeProvider,
	}
}

// Do implements persistence.UnitOfWork
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(unitKey{}).(*state); ok {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.committed.clone()
	if err := fn(context.WithValue(ctx, unitKey{}, work)); err != nil {
		return err
	}
	s.committed = work
	return nil
}

// view runs fn against the unit's state, or against the committed state under the lock
func (s *Store) view(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(unitKey{}).(*state); ok {
		return fn(st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.committed)
}

// update is view for writes outside a unit of work: they commit immediately
func (s *Store) update(ctx context.Context, fn func(st *state) error) error {
	return s.Do(ctx, func(ctx context.Context) error {
		return s.view(ctx, fn)
	})
}

func (s *Store) GetUserRepository(_ context.Context) persistence.UserRepository {
	return &userRepository{store: s}
}

func (s *Store) GetTransactionRepository(_ context.Context) persistence.TransactionRepository {
	return &transactionRepository{store: s}
}

func (s *Store) GetOrderRepository(_ context.Context) persistence.OrderRepository {
	return &orderRepository{store: s}
}

func (s *Store) GetVoucherRepository(_ context.Context) persistence.VoucherRepository {
	return &voucherRepository{store: s}
}

func (s *Store) GetCatalogRepository(_ context.Context) persistence.CatalogRepository {
	return &catalogRepository{store: s}
}

// NotificationRepository returns the inbox repository
func (s *Store) NotificationRepository() persistence.NotificationRepository {
	return &notificationRepository{store: s}
}

// MarkerRepository returns the one-shot marker repository
func (s *Store) MarkerRepository() persistence.MarkerRepository {
	return &markerRepository{store: s}
}

// ResourceLockRepository returns the named lock repository
func (s *Store) ResourceLockRepository() persistence.ResourceLockRepository {
	return &resourceLockRepository{store: s}
}

func newestFirst[T any](items []T, createdAt func(T) time.Time, limit int) []T {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func sortByName[T any](items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return name(items[i]) < name(items[j])
	})
}

var _ persistence.UnitOfWork = (*Store)(nil)

package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/usecase"
)

// Cache keys. Every write path invalidates the key it affects.
const (
	KeyProducts    = "catalog:products"
	KeyServerPlans = "catalog:servers"
	KeyDigital     = "catalog:digital"
)

// Config holds cache policy
type Config struct {
	CatalogTTL           time.Duration
	PriceListTTL         time.Duration
	DigitalProfitPercent int64
	ProviderTimeout      coreport.Duration
}

// Service is a read-through cache in front of the catalog store and the
// digital price list. Balances and ledger lookups never pass through it.
type Service struct {
	uow          persistence.UnitOfWork
	cache        gateway.Cache
	digital      gateway.DigitalGoodsProvider
	group        singleflight.Group
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	cfg          Config
}

// NewService creates a new catalog service
func NewService(
	uow persistence.UnitOfWork,
	cache gateway.Cache,
	digital gateway.DigitalGoodsProvider,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
) *Service {
	if cfg.CatalogTTL <= 0 {
		cfg.CatalogTTL = 5 * time.Minute
	}
	if cfg.PriceListTTL <= 0 {
		cfg.PriceListTTL = 24 * time.Hour
	}
	if cfg.DigitalProfitPercent <= 0 {
		cfg.DigitalProfitPercent = 10
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 30 * coreport.Second
	}
	return &Service{
		uow:          uow,
		cache:        cache,
		digital:      digital,
		timeProvider: timeProvider,
		logger:       logger,
		cfg:          cfg,
	}
}

// readThrough serves key from the cache, loading and storing it on a miss.
// Concurrent misses for one key share a single load. Cache failures degrade to a load.
func readThrough[T any](ctx context.Context, s *Service, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("Cache read failed", map[string]any{"key": key, "error": err.Error()})
	} else if hit {
		return cached, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, value, ttl); err != nil {
			s.logger.Warn("Cache write failed", map[string]any{"key": key, "error": err.Error()})
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Products returns the active products
func (s *Service) Products(ctx context.Context) ([]*entity.Product, error) {
	return readThrough(ctx, s, KeyProducts, s.cfg.CatalogTTL, func(ctx context.Context) ([]*entity.Product, error) {
		return s.uow.GetCatalogRepository(ctx).ListProducts(ctx, true)
	})
}

// ServerPlans returns the active server plans
func (s *Service) ServerPlans(ctx context.Context) ([]*entity.ServerPlan, error) {
	return readThrough(ctx, s, KeyServerPlans, s.cfg.CatalogTTL, func(ctx context.Context) ([]*entity.ServerPlan, error) {
		return s.uow.GetCatalogRepository(ctx).ListServerPlans(ctx, true)
	})
}

// DigitalProducts returns the provider price list with the marketplace markup applied
func (s *Service) DigitalProducts(ctx context.Context) ([]entity.DigitalProduct, error) {
	return readThrough(ctx, s, KeyDigital, s.cfg.PriceListTTL, func(ctx context.Context) ([]entity.DigitalProduct, error) {
		callCtx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.ProviderTimeout)
		defer cancel()

		list, err := s.digital.PriceList(callCtx)
		if err != nil {
			return nil, errs.NewExternalError("digiflazz", "priceList", err)
		}
		for i := range list {
			list[i].Price = entity.MarkupPrice(list[i].BasePrice, s.cfg.DigitalProfitPercent)
		}
		s.logger.Info("Digital price list refreshed", map[string]any{"items": len(list)})
		return list, nil
	})
}

// SaveProduct creates or replaces a product
func (s *Service) SaveProduct(ctx context.Context, product *entity.Product) error {
	if strings.TrimSpace(product.ID) == "" {
		product.ID = entity.NewID()
	}
	if strings.TrimSpace(product.Name) == "" || product.Price <= 0 || product.Stock < 0 {
		return fmt.Errorf("%w: product needs a name, a positive price and non-negative stock", errs.ErrInvalidRequest)
	}
	if err := s.uow.GetCatalogRepository(ctx).SaveProduct(ctx, product); err != nil {
		return err
	}
	s.InvalidateProducts(ctx)
	return nil
}

// SaveServerPlan creates or replaces a server plan
func (s *Service) SaveServerPlan(ctx context.Context, plan *entity.ServerPlan) error {
	if strings.TrimSpace(plan.ID) == "" {
		plan.ID = entity.NewID()
	}
	if strings.TrimSpace(plan.Name) == "" || plan.Price <= 0 || plan.RAM <= 0 || plan.Disk <= 0 || plan.CPU <= 0 {
		return fmt.Errorf("%w: plan needs a name, a positive price and resources", errs.ErrInvalidRequest)
	}
	if err := s.uow.GetCatalogRepository(ctx).SaveServerPlan(ctx, plan); err != nil {
		return err
	}
	s.invalidate(ctx, KeyServerPlans)
	return nil
}

// CreateVoucher stores a new voucher
func (s *Service) CreateVoucher(ctx context.Context, voucher *entity.Voucher) error {
	return s.uow.GetVoucherRepository(ctx).Create(ctx, voucher)
}

// InvalidateProducts drops the cached product list
func (s *Service) InvalidateProducts(ctx context.Context) {
	s.invalidate(ctx, KeyProducts)
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.logger.Error("Cache invalidation failed", map[string]any{
			"keys":  keys,
			"error": err.Error(),
		})
	}
}

var _ usecase.CatalogUseCase = (*Service)(nil)

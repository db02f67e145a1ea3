package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/memory"
	timeadapter "github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/time"
	gatewaymocks "github.com/amirhossein-jamali/marketplace-ledger/mocks/port/gateway"
)

func newService(t *testing.T, c gateway.Cache) (*Service, *memory.Store, *gatewaymocks.MockDigitalGoodsProvider) {
	t.Helper()
	clock := timeadapter.NewRealTimeProvider()
	store := memory.NewStore(clock)
	digital := gatewaymocks.NewMockDigitalGoodsProvider(t)
	if c == nil {
		c = cache.NewMemoryCache(clock)
	}
	return NewService(store, c, digital, clock, logger.NewNoopLogger(), Config{}), store, digital
}

func TestService_Products(t *testing.T) {
	ctx := context.Background()

	t.Run("should serve cached products until a write invalidates them", func(t *testing.T) {
		svc, store, _ := newService(t, nil)
		require.NoError(t, svc.SaveProduct(ctx, &entity.Product{ID: "p1", Name: "Spotify", Price: 15000, Stock: 4, IsActive: true}))

		list, err := svc.Products(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)

		// a write that bypasses the service is not visible until invalidation
		require.NoError(t, store.GetCatalogRepository(ctx).DecrementStock(ctx, "p1", 1))
		list, err = svc.Products(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, list[0].Stock)

		svc.InvalidateProducts(ctx)
		list, err = svc.Products(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, list[0].Stock)
	})

	t.Run("should hide inactive products", func(t *testing.T) {
		svc, _, _ := newService(t, nil)
		require.NoError(t, svc.SaveProduct(ctx, &entity.Product{ID: "p1", Name: "A", Price: 1000, IsActive: true}))
		require.NoError(t, svc.SaveProduct(ctx, &entity.Product{ID: "p2", Name: "B", Price: 1000, IsActive: false}))

		list, err := svc.Products(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "p1", list[0].ID)
	})

	t.Run("should validate products", func(t *testing.T) {
		svc, _, _ := newService(t, nil)
		err := svc.SaveProduct(ctx, &entity.Product{Name: "", Price: 1000})
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("should fall back to the store when the cache fails", func(t *testing.T) {
		broken := gatewaymocks.NewMockCache(t)
		broken.On("Get", mock.Anything, KeyProducts, mock.Anything).Return(false, errors.New("connection refused"))
		broken.On("Set", mock.Anything, KeyProducts, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
		broken.On("Invalidate", mock.Anything, KeyProducts).Return(errors.New("connection refused"))

		svc, _, _ := newService(t, broken)
		require.NoError(t, svc.SaveProduct(ctx, &entity.Product{ID: "p1", Name: "A", Price: 1000, IsActive: true}))

		list, err := svc.Products(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestService_DigitalProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("should apply markup and load the price list once for concurrent misses", func(t *testing.T) {
		svc, _, digital := newService(t, nil)
		release := make(chan struct{})
		digital.On("PriceList", mock.Anything).Return(func(context.Context) ([]entity.DigitalProduct, error) {
			<-release
			return []entity.DigitalProduct{{SKU: "ml86", BasePrice: 20001, Available: true}}, nil
		}).Once()

		var wg sync.WaitGroup
		results := make([][]entity.DigitalProduct, 5)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				list, err := svc.DigitalProducts(ctx)
				assert.NoError(t, err)
				results[i] = list
			}(i)
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		for _, list := range results {
			require.Len(t, list, 1)
			assert.Equal(t, int64(22002), list[0].Price)
		}

		list, err := svc.DigitalProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(22002), list[0].Price)
	})

	t.Run("should wrap provider errors", func(t *testing.T) {
		svc, _, digital := newService(t, nil)
		digital.On("PriceList", mock.Anything).Return(nil, errors.New("boom")).Once()

		_, err := svc.DigitalProducts(ctx)
		assert.ErrorIs(t, err, errs.ErrExternalService)
	})
}

func TestService_ServerPlansAndVouchers(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t, nil)

	require.NoError(t, svc.SaveServerPlan(ctx, &entity.ServerPlan{ID: "s1", Name: "1GB", RAM: 1, CPU: 50, Disk: 5, Price: 5000, IsActive: true}))
	plans, err := svc.ServerPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	require.NoError(t, svc.SaveServerPlan(ctx, &entity.ServerPlan{ID: "s2", Name: "2GB", RAM: 2, CPU: 100, Disk: 10, Price: 9000, IsActive: true}))
	plans, err = svc.ServerPlans(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 2)

	v, err := entity.NewVoucher("hemat5", entity.DiscountFixed, 5000, 0, 10, nil)
	require.NoError(t, err)
	require.NoError(t, svc.CreateVoucher(ctx, v))
	stored, err := store.GetVoucherRepository(ctx).GetByCode(ctx, "HEMAT5")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), stored.DiscountValue)
}

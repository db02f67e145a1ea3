package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/logger"
	coremocks "github.com/amirhossein-jamali/marketplace-ledger/mocks/port/core"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := coremocks.NewMockTimeProvider(t)
	clock.On("Now").Return(func() time.Time { return now })

	c := NewMemoryCache(clock)
	products := []*entity.Product{{ID: "p1", Name: "Netflix", Price: 25000, Stock: 3, IsActive: true}}

	t.Run("should miss on unknown keys", func(t *testing.T) {
		var out []*entity.Product
		hit, err := c.Get(ctx, "nope", &out)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("should return a copy of the stored value", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "products", products, time.Minute))

		var out []*entity.Product
		hit, err := c.Get(ctx, "products", &out)
		require.NoError(t, err)
		require.True(t, hit)
		assert.Equal(t, products, out)

		out[0].Stock = 0
		var again []*entity.Product
		_, err = c.Get(ctx, "products", &again)
		require.NoError(t, err)
		assert.Equal(t, 3, again[0].Stock)
	})

	t.Run("should expire entries after the ttl", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", products, time.Minute))
		now = now.Add(2 * time.Minute)

		var out []*entity.Product
		hit, err := c.Get(ctx, "short", &out)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("should drop invalidated keys", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "a", 1, 0))
		require.NoError(t, c.Set(ctx, "b", 2, 0))
		require.NoError(t, c.Invalidate(ctx, "a", "b"))

		var out int
		hit, err := c.Get(ctx, "a", &out)
		require.NoError(t, err)
		assert.False(t, hit)
	})
}

func TestNewRedisCache_Errors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, "not-a-url", "ml:", logger.NewNoopLogger())
	assert.ErrorContains(t, err, "invalid redis url")

	_, err = NewRedisCache(ctx, "redis://127.0.0.1:1/0", "ml:", logger.NewNoopLogger())
	assert.ErrorContains(t, err, "redis ping failed")
}

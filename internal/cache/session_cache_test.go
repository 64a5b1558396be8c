package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/catalog_assistant/internal/session"
	"github.com/GTDGit/catalog_assistant/internal/utils"
)

type fixedPrices map[string]decimal.Decimal

func (f fixedPrices) FinalPrice(name string) (decimal.Decimal, bool) {
	p, ok := f[name]
	return p, ok
}

func newTestCache(t *testing.T, ttl time.Duration) (*SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionCache(NewRedisClientFrom(client), ttl), mr
}

func TestSessionCache_SaveAndGet(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	s := session.New()
	s.SelectedCategory = "Grocery"
	require.NoError(t, s.Cart.Add("Tea", fixedPrices{"Tea": decimal.NewFromInt(59)}))
	require.NoError(t, c.Save(ctx, s))

	got, err := c.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "Grocery", got.SelectedCategory)
	require.Len(t, got.Cart.Snapshot(), 1)
	assert.Equal(t, "Tea", got.Cart.Snapshot()[0].ProductName)
}

func TestSessionCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	s := session.New()
	require.NoError(t, c.Save(ctx, s))

	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, s.ID)
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

func TestSessionCache_GetRefreshesTTL(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	s := session.New()
	require.NoError(t, c.Save(ctx, s))

	mr.FastForward(40 * time.Second)
	_, err := c.Get(ctx, s.ID)
	require.NoError(t, err)

	mr.FastForward(40 * time.Second)
	_, err = c.Get(ctx, s.ID)
	assert.NoError(t, err)
}

func TestSessionCache_Delete(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	s := session.New()
	require.NoError(t, c.Save(ctx, s))
	require.NoError(t, c.Delete(ctx, s.ID))

	_, err := c.Get(ctx, s.ID)
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/wattlecart/storefront/internal/shop/domain"
)

func newTestCache(t *testing.T) (*FeaturedCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewFeaturedCache(rdb), mr
}

func TestFeaturedCacheMissOnEmpty(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	products, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, products)
}

func TestFeaturedCacheSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	want := []domain.Product{
		{ID: "p1", Name: "Boots", PriceCents: 12900, Category: "shoes", IsFeatured: true},
		{ID: "p2", Name: "Jacket", PriceCents: 24900, Category: "jackets", IsFeatured: true},
	}
	require.NoError(t, c.Set(ctx, want))

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	require.Equal(t, "p1", got[0].ID)
	require.Equal(t, "Boots", got[0].Name)
	require.Equal(t, int64(12900), got[0].PriceCents)
	require.True(t, got[0].IsFeatured)
	require.Equal(t, "p2", got[1].ID)

	// The entry lives until the next overwrite, no TTL.
	require.Equal(t, time.Duration(0), mr.TTL(featuredKey))
}

func TestFeaturedCacheSetOverwrites(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, []domain.Product{{ID: "p1", Name: "Boots"}}))
	require.NoError(t, c.Set(ctx, []domain.Product{{ID: "p2", Name: "Jacket"}}))

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, "p2", got[0].ID)
}

func TestFeaturedCacheEmptyListIsAHit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, []domain.Product{}))

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok, "a cached empty list is still a hit")
	require.Empty(t, got)
}

func TestFeaturedCacheCorruptEntryReadsAsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, mr.Set(featuredKey, "{definitely not json"))

	products, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, products)
}

func TestFeaturedCachePing(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Ping(ctx))

	mr.Close()
	require.Error(t, c.Ping(ctx))
}

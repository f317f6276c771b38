package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/wattlecart/storefront/internal/shop/cache"
	"github.com/wattlecart/storefront/internal/shop/domain"
	"github.com/wattlecart/storefront/internal/shop/store"
	"github.com/wattlecart/storefront/internal/shop/store/drivers/sqlite"
	"github.com/wattlecart/storefront/pkg/idx"
)

// mediaStub records calls so tests can assert on the image side effects.
type mediaStub struct {
	uploadURL string
	uploadErr error
	uploads   []string
	deletes   []string
}

func (m *mediaStub) Upload(_ context.Context, folder, payload string) (string, error) {
	m.uploads = append(m.uploads, folder+":"+payload)
	return m.uploadURL, m.uploadErr
}

func (m *mediaStub) Delete(_ context.Context, publicID string) error {
	m.deletes = append(m.deletes, publicID)
	return nil
}

type productFixture struct {
	svc   *ProductService
	store store.Store
	cache *cache.FeaturedCache
	media *mediaStub
}

func newProductFixture(t *testing.T) productFixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	featured := cache.NewFeaturedCache(rdb)
	stub := &mediaStub{uploadURL: "https://cdn.example.com/products/uploaded.png"}

	return productFixture{
		svc:   &ProductService{Store: st, Featured: featured, Media: stub},
		store: st,
		cache: featured,
		media: stub,
	}
}

func (f productFixture) insertProduct(t *testing.T, name, category string, featured bool) domain.Product {
	t.Helper()

	p := domain.Product{
		ID:         idx.New().String(),
		Name:       name,
		PriceCents: 9900,
		Category:   category,
		IsFeatured: featured,
	}
	require.NoError(t, f.store.Products().CreateProduct(context.Background(), p))
	return p
}

func TestGetFeatured(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store and cache", func(t *testing.T) {
		f := newProductFixture(t)

		_, err := f.svc.GetFeatured(ctx)
		require.ErrorIs(t, err, ErrNoFeaturedProducts)
	})

	t.Run("read-through populates the cache", func(t *testing.T) {
		f := newProductFixture(t)
		p := f.insertProduct(t, "Boots", "shoes", true)
		f.insertProduct(t, "Sneakers", "shoes", false)

		got, err := f.svc.GetFeatured(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, p.ID, got[0].ID)

		cached, ok, err := f.cache.Get(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, cached, 1)
		require.Equal(t, p.ID, cached[0].ID)
	})

	t.Run("subsequent reads come from the cache", func(t *testing.T) {
		f := newProductFixture(t)
		p := f.insertProduct(t, "Boots", "shoes", true)

		first, err := f.svc.GetFeatured(ctx)
		require.NoError(t, err)

		// Mutating the store behind the service's back does not change what
		// the cache serves; only an explicit refresh does.
		require.NoError(t, f.store.Products().DeleteProduct(ctx, p.ID))

		second, err := f.svc.GetFeatured(ctx)
		require.NoError(t, err)
		require.Len(t, second, len(first))
		require.Equal(t, first[0].ID, second[0].ID)
	})
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("without image", func(t *testing.T) {
		f := newProductFixture(t)

		p, err := f.svc.Create(ctx, CreateProductInput{
			Name:       "  Boots  ",
			PriceCents: 12900,
			Category:   " shoes ",
		})
		require.NoError(t, err)
		require.Equal(t, "Boots", p.Name)
		require.Equal(t, "shoes", p.Category)
		require.Empty(t, p.ImageURL)
		require.False(t, p.CreatedAt.IsZero())
		require.Empty(t, f.media.uploads)
	})

	t.Run("with image uploads first", func(t *testing.T) {
		f := newProductFixture(t)

		p, err := f.svc.Create(ctx, CreateProductInput{
			Name:       "Boots",
			PriceCents: 12900,
			Category:   "shoes",
			Image:      "data:image/png;base64,AAAA",
		})
		require.NoError(t, err)
		require.Equal(t, "https://cdn.example.com/products/uploaded.png", p.ImageURL)
		require.Equal(t, []string{"products:data:image/png;base64,AAAA"}, f.media.uploads)
	})

	t.Run("upload failure aborts the create", func(t *testing.T) {
		f := newProductFixture(t)
		f.media.uploadErr = errors.New("host down")

		_, err := f.svc.Create(ctx, CreateProductInput{
			Name:     "Boots",
			Category: "shoes",
			Image:    "data:image/png;base64,AAAA",
		})
		require.Error(t, err)

		all, err := f.svc.ListAll(ctx)
		require.NoError(t, err)
		require.Empty(t, all, "nothing persisted when the upload fails")
	})

	t.Run("featured create primes the cache", func(t *testing.T) {
		f := newProductFixture(t)

		p, err := f.svc.Create(ctx, CreateProductInput{
			Name:       "Boots",
			PriceCents: 12900,
			Category:   "shoes",
			IsFeatured: true,
		})
		require.NoError(t, err)

		cached, ok, err := f.cache.Get(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, cached, 1)
		require.Equal(t, p.ID, cached[0].ID)
	})
}

func TestToggleFeatured(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t)

	p := f.insertProduct(t, "Boots", "shoes", false)

	t.Run("unknown product", func(t *testing.T) {
		_, err := f.svc.ToggleFeatured(ctx, "nope")
		require.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("flips on and the cache sees it", func(t *testing.T) {
		got, err := f.svc.ToggleFeatured(ctx, p.ID)
		require.NoError(t, err)
		require.True(t, got.IsFeatured)

		cached, ok, err := f.cache.Get(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, cached, 1)
		require.Equal(t, p.ID, cached[0].ID)
	})

	t.Run("flips back off and the cache empties", func(t *testing.T) {
		got, err := f.svc.ToggleFeatured(ctx, p.ID)
		require.NoError(t, err)
		require.False(t, got.IsFeatured)

		cached, ok, err := f.cache.Get(ctx)
		require.NoError(t, err)
		require.True(t, ok, "recompute writes an empty list, not a delete")
		require.Empty(t, cached)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown product", func(t *testing.T) {
		f := newProductFixture(t)
		require.ErrorIs(t, f.svc.Delete(ctx, "nope"), ErrProductNotFound)
	})

	t.Run("removes the row and the hosted image", func(t *testing.T) {
		f := newProductFixture(t)
		p := domain.Product{
			ID:         idx.New().String(),
			Name:       "Boots",
			PriceCents: 9900,
			Category:   "shoes",
			ImageURL:   "https://cdn.example.com/products/abc123.png",
		}
		require.NoError(t, f.store.Products().CreateProduct(ctx, p))

		require.NoError(t, f.svc.Delete(ctx, p.ID))

		_, err := f.store.Products().GetProductByID(ctx, p.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.Equal(t, []string{"products/abc123"}, f.media.deletes)
	})

	t.Run("featured delete refreshes the cache", func(t *testing.T) {
		f := newProductFixture(t)
		p := f.insertProduct(t, "Boots", "shoes", true)
		keep := f.insertProduct(t, "Jacket", "jackets", true)

		_, err := f.svc.GetFeatured(ctx)
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(ctx, p.ID))

		cached, ok, err := f.cache.Get(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, cached, 1)
		require.Equal(t, keep.ID, cached[0].ID)
	})
}

func TestRecommendations(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t)

	for i := 0; i < 10; i++ {
		f.insertProduct(t, "Item", "misc", false)
	}

	got, err := f.svc.Recommendations(ctx)
	require.NoError(t, err)
	require.Len(t, got, RecommendationCount)
}

func TestListByCategory(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t)

	f.insertProduct(t, "Boots", "shoes", false)
	f.insertProduct(t, "Jacket", "jackets", false)

	got, err := f.svc.ListByCategory(ctx, " shoes ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Boots", got[0].Name)
}

package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wattlecart/storefront/internal/shop/domain"
	"github.com/wattlecart/storefront/internal/shop/store"
	"github.com/wattlecart/storefront/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestUser(username, email string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: "argon2:dummy",
		Role:         domain.RoleCustomer,
	}
}

func newTestProduct(name, category string, featured bool) domain.Product {
	return domain.Product{
		ID:         idx.New().String(),
		Name:       name,
		PriceCents: 9900,
		Category:   category,
		IsFeatured: featured,
	}
}

func TestUsersCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	t.Run("by id", func(t *testing.T) {
		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, "alice", got.Username)
		require.Equal(t, "alice@example.com", got.Email)
		require.Equal(t, domain.RoleCustomer, got.Role)
		require.Empty(t, got.CartItems)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("by email", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := s.Users().GetUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUsersUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Users().CreateUser(ctx, newTestUser("alice", "alice@example.com")))

	t.Run("duplicate email", func(t *testing.T) {
		err := s.Users().CreateUser(ctx, newTestUser("bob", "alice@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := s.Users().CreateUser(ctx, newTestUser("alice", "alice2@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestUsersUpdatePasswordHash(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "argon2:newhash"))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "argon2:newhash", got.PasswordHash)

	require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, "nope", "x"), store.ErrNotFound)
}

func TestUsersIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	empty, err := s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, s.Users().CreateUser(ctx, newTestUser("alice", "alice@example.com")))

	empty, err = s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestUsersGetIncludesCart(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	p := newTestProduct("Boots", "shoes", false)
	require.NoError(t, s.Products().CreateProduct(ctx, p))

	require.NoError(t, s.CartItems().UpsertCartItem(ctx, u.ID, p.ID, 2))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []domain.CartItem{{ProductID: p.ID, Quantity: 2}}, got.CartItems)
}

func TestUsersDeleteCascadesCart(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	p := newTestProduct("Boots", "shoes", false)
	require.NoError(t, s.Products().CreateProduct(ctx, p))
	require.NoError(t, s.CartItems().UpsertCartItem(ctx, u.ID, p.ID, 1))

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

	items, err := s.CartItems().ListCartItems(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, items)

	require.ErrorIs(t, s.Users().DeleteUser(ctx, u.ID), store.ErrNotFound)
}

func TestProductsCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := newTestProduct("Boots", "shoes", true)
	p.Description = "Sturdy leather boots"
	p.ImageURL = "https://cdn.example.com/products/boots.png"
	require.NoError(t, s.Products().CreateProduct(ctx, p))

	got, err := s.Products().GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
	require.Equal(t, "Boots", got.Name)
	require.Equal(t, "Sturdy leather boots", got.Description)
	require.Equal(t, int64(9900), got.PriceCents)
	require.Equal(t, "https://cdn.example.com/products/boots.png", got.ImageURL)
	require.True(t, got.IsFeatured)

	_, err = s.Products().GetProductByID(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestProductsEmptyImageReadsBackEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := newTestProduct("Boots", "shoes", false)
	require.NoError(t, s.Products().CreateProduct(ctx, p))

	got, err := s.Products().GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.Empty(t, got.ImageURL)
}

func TestProductsListAndFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	boots := newTestProduct("Boots", "shoes", true)
	sneakers := newTestProduct("Sneakers", "shoes", false)
	jacket := newTestProduct("Jacket", "jackets", true)
	for _, p := range []domain.Product{boots, sneakers, jacket} {
		require.NoError(t, s.Products().CreateProduct(ctx, p))
	}

	t.Run("list all", func(t *testing.T) {
		all, err := s.Products().ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
	})

	t.Run("by category", func(t *testing.T) {
		shoes, err := s.Products().ListProductsByCategory(ctx, "shoes")
		require.NoError(t, err)
		require.Len(t, shoes, 2)

		none, err := s.Products().ListProductsByCategory(ctx, "hats")
		require.NoError(t, err)
		require.Empty(t, none)
	})

	t.Run("featured only", func(t *testing.T) {
		featured, err := s.Products().ListFeaturedProducts(ctx)
		require.NoError(t, err)
		require.Len(t, featured, 2)
		for _, p := range featured {
			require.True(t, p.IsFeatured)
		}
	})
}

func TestProductsSample(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ids := map[string]bool{}
	for i := 0; i < 10; i++ {
		p := newTestProduct("Item", "misc", false)
		require.NoError(t, s.Products().CreateProduct(ctx, p))
		ids[p.ID] = true
	}

	t.Run("caps at n", func(t *testing.T) {
		sample, err := s.Products().SampleProducts(ctx, 4)
		require.NoError(t, err)
		require.Len(t, sample, 4)

		seen := map[string]bool{}
		for _, p := range sample {
			require.True(t, ids[p.ID], "sampled product must come from the catalog")
			require.False(t, seen[p.ID], "sample must not repeat products")
			seen[p.ID] = true
		}
	})

	t.Run("returns everything when n exceeds catalog", func(t *testing.T) {
		sample, err := s.Products().SampleProducts(ctx, 100)
		require.NoError(t, err)
		require.Len(t, sample, 10)
	})
}

func TestProductsSetFeatured(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := newTestProduct("Boots", "shoes", false)
	require.NoError(t, s.Products().CreateProduct(ctx, p))

	require.NoError(t, s.Products().SetProductFeatured(ctx, p.ID, true))

	got, err := s.Products().GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, got.IsFeatured)

	require.NoError(t, s.Products().SetProductFeatured(ctx, p.ID, false))

	got, err = s.Products().GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, got.IsFeatured)

	require.ErrorIs(t, s.Products().SetProductFeatured(ctx, "nope", true), store.ErrNotFound)
}

func TestProductsDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := newTestProduct("Boots", "shoes", false)
	require.NoError(t, s.Products().CreateProduct(ctx, p))

	require.NoError(t, s.Products().DeleteProduct(ctx, p.ID))

	_, err := s.Products().GetProductByID(ctx, p.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Products().DeleteProduct(ctx, p.ID), store.ErrNotFound)
}

func TestProductsDeleteCascadesCart(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	p := newTestProduct("Boots", "shoes", false)
	require.NoError(t, s.Products().CreateProduct(ctx, p))
	require.NoError(t, s.CartItems().UpsertCartItem(ctx, u.ID, p.ID, 3))

	require.NoError(t, s.Products().DeleteProduct(ctx, p.ID))

	items, err := s.CartItems().ListCartItems(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCartItemsUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	p := newTestProduct("Boots", "shoes", false)
	require.NoError(t, s.Products().CreateProduct(ctx, p))

	t.Run("insert", func(t *testing.T) {
		require.NoError(t, s.CartItems().UpsertCartItem(ctx, u.ID, p.ID, 1))

		items, err := s.CartItems().ListCartItems(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, []domain.CartItem{{ProductID: p.ID, Quantity: 1}}, items)
	})

	t.Run("update quantity in place", func(t *testing.T) {
		require.NoError(t, s.CartItems().UpsertCartItem(ctx, u.ID, p.ID, 5))

		items, err := s.CartItems().ListCartItems(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, []domain.CartItem{{ProductID: p.ID, Quantity: 5}}, items)
	})

	t.Run("unknown product violates the schema", func(t *testing.T) {
		require.Error(t, s.CartItems().UpsertCartItem(ctx, u.ID, "nope", 1))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.CartItems().DeleteCartItem(ctx, u.ID, p.ID))

		items, err := s.CartItems().ListCartItems(ctx, u.ID)
		require.NoError(t, err)
		require.Empty(t, items)

		require.ErrorIs(t, s.CartItems().DeleteCartItem(ctx, u.ID, p.ID), store.ErrNotFound)
	})
}

func TestStorePing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}

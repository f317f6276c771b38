package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wattlecart/storefront/internal/shop/domain"
	"github.com/wattlecart/storefront/internal/shop/store"
	"github.com/wattlecart/storefront/internal/shop/store/drivers/sqlite"
	"github.com/wattlecart/storefront/pkg/cryptox"
)

func newSeedStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the admin on an empty store", func(t *testing.T) {
		st := newSeedStore(t)
		seed := &SeedService{
			Store:         st,
			AdminUsername: "boss",
			AdminEmail:    "Admin@Example.com",
			AdminPassword: "super-secret",
		}

		require.NoError(t, seed.SeedAdmin(ctx))

		admin, err := st.Users().GetUserByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		require.Equal(t, "boss", admin.Username)
		require.Equal(t, domain.RoleAdmin, admin.Role)
		require.NoError(t, cryptox.VerifyPassword("super-secret", admin.PasswordHash))
	})

	t.Run("defaults the username", func(t *testing.T) {
		st := newSeedStore(t)
		seed := &SeedService{
			Store:         st,
			AdminEmail:    "admin@example.com",
			AdminPassword: "super-secret",
		}

		require.NoError(t, seed.SeedAdmin(ctx))

		admin, err := st.Users().GetUserByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		require.Equal(t, "admin", admin.Username)
	})

	t.Run("no-op on a populated store", func(t *testing.T) {
		st := newSeedStore(t)
		require.NoError(t, st.Users().CreateUser(ctx, domain.User{
			ID:           "existing",
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: "hash",
			Role:         domain.RoleCustomer,
		}))

		seed := &SeedService{
			Store:         st,
			AdminEmail:    "admin@example.com",
			AdminPassword: "super-secret",
		}

		require.NoError(t, seed.SeedAdmin(ctx))

		_, err := st.Users().GetUserByEmail(ctx, "admin@example.com")
		require.ErrorIs(t, err, store.ErrNotFound, "seed must not run twice")
	})

	t.Run("empty store without credentials", func(t *testing.T) {
		st := newSeedStore(t)
		seed := &SeedService{Store: st}

		require.ErrorIs(t, seed.SeedAdmin(ctx), ErrSeedNotConfigured)
	})
}

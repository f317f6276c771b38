package service

import (
	"context"
	"errors"

	"github.com/wattlecart/storefront/internal/shop/domain"
	"github.com/wattlecart/storefront/internal/shop/store"
	"github.com/wattlecart/storefront/pkg/cryptox"
	"github.com/wattlecart/storefront/pkg/idx"
	"github.com/wattlecart/storefront/pkg/slogx"
)

var ErrSeedNotConfigured = errors.New("admin seed not configured")

// SeedService creates the initial admin account on first boot. Without it
// there is no path to the admin role, since signup always grants customer.
type SeedService struct {
	Store store.Store

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// SeedAdmin creates the admin user if and only if the user table is empty and
// credentials were configured. Idempotent: a populated store is a no-op.
func (s *SeedService) SeedAdmin(ctx context.Context) error {
	l := slogx.FromContext(ctx)

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	if s.AdminEmail == "" || s.AdminPassword == "" {
		return ErrSeedNotConfigured
	}

	hash, err := cryptox.HashPassword(s.AdminPassword)
	if err != nil {
		return err
	}

	username := s.AdminUsername
	if username == "" {
		username = "admin"
	}

	admin := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        NormalizeEmail(s.AdminEmail),
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.Store.Users().CreateUser(ctx, admin); err != nil {
		return err
	}

	l.Info("seeded initial admin user", "user_id", admin.ID, "email", admin.Email)
	return nil
}

package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/wattlecart/storefront/internal/shop/domain"
	"github.com/wattlecart/storefront/internal/shop/session"
	"github.com/wattlecart/storefront/internal/shop/store"
	"github.com/wattlecart/storefront/pkg/cryptox"
	"github.com/wattlecart/storefront/pkg/idx"
	"github.com/wattlecart/storefront/pkg/jwtx"
	"github.com/wattlecart/storefront/pkg/slogx"
)

var (
	ErrEmailTaken         = errors.New("email_taken")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
)

// TokenPair is what a successful signup or login hands back to the transport
// layer, which turns it into the two auth cookies.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService orchestrates the user store, the token signers and the session
// store for the signup/login/refresh/logout flows.
type AuthService struct {
	Store    store.Store
	Sessions *session.Store
	Access   *jwtx.HS256
	Refresh  *jwtx.HS256
}

// issueTokens mints an access/refresh pair for the user and records the
// refresh token as the user's single active session.
func (s *AuthService) issueTokens(ctx context.Context, userID string) (TokenPair, error) {
	access, err := s.Access.Sign(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.Refresh.Sign(userID)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Sessions.Put(ctx, userID, refresh); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// NormalizeEmail lowercases and trims an email address. Uniqueness and lookup
// both operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account, hashes the password, and logs the user in.
// Returns ErrEmailTaken when the email (or username) is already registered.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.UserView, TokenPair, error) {
	email = NormalizeEmail(email)
	username = strings.TrimSpace(username)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.UserView{}, TokenPair{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.UserView{}, TokenPair{}, ErrEmailTaken
		}
		return domain.UserView{}, TokenPair{}, err
	}

	// Re-read so the view carries the store-assigned timestamps.
	created, err := s.Store.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		return domain.UserView{}, TokenPair{}, err
	}

	pair, err := s.issueTokens(ctx, created.ID)
	if err != nil {
		return domain.UserView{}, TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", created.ID)
	return created.View(), pair, nil
}

// Login authenticates by email and password. ErrUserNotFound when no account
// matches the email; ErrInvalidCredentials when the password is wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.UserView, TokenPair, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.UserView{}, TokenPair{}, ErrUserNotFound
		}
		return domain.UserView{}, TokenPair{}, err
	}

	if cryptox.VerifyPassword(password, user.PasswordHash) != nil {
		return domain.UserView{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return domain.UserView{}, TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", user.ID)
	return user.View(), pair, nil
}

// RefreshAccess validates a refresh token against both its signature and the
// session store's record, then mints a fresh access token. The refresh token
// itself is not rotated. Every failure mode collapses to ErrInvalidRefresh so
// the response never reveals which check rejected the token.
func (s *AuthService) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrInvalidRefresh
	}

	claims, err := s.Refresh.Verify(refreshToken)
	if err != nil {
		return "", ErrInvalidRefresh
	}

	stored, err := s.Sessions.Get(ctx, claims.UserID())
	if err != nil {
		return "", err
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		// Revoked, or superseded by a newer login.
		return "", ErrInvalidRefresh
	}

	return s.Access.Sign(claims.UserID())
}

// Logout revokes the session backing the given refresh token. Best-effort: a
// missing or unverifiable token is not an error, the client's cookies get
// cleared either way.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	claims, err := s.Refresh.Verify(refreshToken)
	if err != nil {
		return
	}
	if err := s.Sessions.Delete(ctx, claims.UserID()); err != nil {
		slogx.FromContext(ctx).Warn("logout: session delete failed", "user_id", claims.UserID(), "err", err)
	}
}

// GetProfile returns the sanitized view for a user id, or ErrUserNotFound if
// the account has since been deleted.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (domain.UserView, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.UserView{}, ErrUserNotFound
		}
		return domain.UserView{}, err
	}
	return user.View(), nil
}

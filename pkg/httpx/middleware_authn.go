package httpx

import (
	"context"
	"net/http"

	"github.com/wattlecart/storefront/pkg/jwtx"
	"github.com/wattlecart/storefront/pkg/slogx"
)

// UserResolver loads the principal for a verified token subject. Returning an
// error means the account no longer exists (or the store is down); either way
// the request does not proceed.
type UserResolver func(ctx context.Context, userID string) (AuthUser, error)

// AuthnMiddleware verifies the access-token cookie and attaches the resolved
// user to the request context. The three failure modes get distinct messages
// (the client needs to know whether to try a refresh), but all of them are a
// plain 401 with no detail about why verification failed.
func AuthnMiddleware(v jwtx.Verifier, resolve UserResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := CookieValue(r, AccessTokenCookie)
			if raw == "" {
				WriteError(w, http.StatusUnauthorized, "not authorized, no token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("access token verify failed", "err", err)
				WriteError(w, http.StatusUnauthorized, "not authorized, token failed")
				return
			}

			user, err := resolve(ctx, claims.UserID())
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "not authorized, user not found")
				return
			}

			// Inject into context for downstream handlers.
			ctx = context.WithValue(ctx, CtxKeyUserID, user.ID)
			ctx = context.WithValue(ctx, CtxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

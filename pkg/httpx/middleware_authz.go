package httpx

import "net/http"

// RequireRole gates a handler on the attached user's role. It must run after
// AuthnMiddleware; with no user attached it rejects, so a mis-ordered chain
// fails closed.
func RequireRole(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromCtx(r.Context())
			if !ok || user.Role != role {
				WriteError(w, http.StatusUnauthorized, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

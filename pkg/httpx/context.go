package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyUser   ctxKey = "user"
)

// AuthUser is the authenticated principal the middleware attaches to the
// request context. Only what authorization decisions need; handlers wanting
// the full profile load it themselves.
type AuthUser struct {
	ID   string
	Role string
}

// UserFromCtx returns the authenticated user attached by AuthnMiddleware.
func UserFromCtx(ctx context.Context) (AuthUser, bool) {
	u, ok := ctx.Value(CtxKeyUser).(AuthUser)
	return u, ok
}

// UserIDFromCtx returns just the authenticated user id.
func UserIDFromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return id
	}
	return ""
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wattlecart/storefront/internal/shop/domain"
	"github.com/wattlecart/storefront/internal/shop/service"
	"github.com/wattlecart/storefront/pkg/httpx"
	"github.com/wattlecart/storefront/pkg/slogx"
)

// AuthHandler serves the signup/login/logout/refresh/profile endpoints.
// SecureCookies is true in production deployments so the auth cookies only
// travel over HTTPS.
type AuthHandler struct {
	AuthService   *service.AuthService
	SecureCookies bool
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	User domain.UserView `json:"user"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// HandleSignup godoc
//
//	@Summary		Create a new account
//	@Description	Registers a user, logs them in and sets the auth cookies.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		signupRequest		true	"username, email, password"
//	@Success		201		{object}	userResponse		"Sanitized user"
//	@Failure		400		{object}	httpx.ErrorResponse	"Missing fields or email already registered"
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/api/auth/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	user, pair, err := h.AuthService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			httpx.WriteError(w, http.StatusBadRequest, "user already exists")
			return
		}
		log.Error("signup failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.SetAuthCookies(w, pair.AccessToken, pair.RefreshToken, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusCreated, userResponse{User: user})
}

// HandleLogin godoc
//
//	@Summary		Log in with email and password
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		loginRequest		true	"email, password"
//	@Success		200		{object}	userResponse		"Sanitized user"
//	@Failure		401		{object}	httpx.ErrorResponse	"Wrong password"
//	@Failure		404		{object}	httpx.ErrorResponse	"No account for that email"
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, pair, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	httpx.SetAuthCookies(w, pair.AccessToken, pair.RefreshToken, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, userResponse{User: user})
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Revokes the server-side session (best-effort) and clears both auth cookies. Always succeeds.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]string	"message"
//	@Router			/api/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	refresh := httpx.CookieValue(r, httpx.RefreshTokenCookie)
	h.AuthService.Logout(r.Context(), refresh)

	httpx.ClearAuthCookies(w, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// HandleRefresh godoc
//
//	@Summary		Refresh the access token
//	@Description	Validates the refresh cookie against the session store and resets the access-token cookie. The refresh token is not rotated.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]string	"message"
//	@Failure		401	{object}	httpx.ErrorResponse	"Missing, invalid, expired or revoked refresh token"
//	@Failure		500	{object}	httpx.ErrorResponse
//	@Router			/api/auth/refresh-token [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	refresh := httpx.CookieValue(r, httpx.RefreshTokenCookie)

	access, err := h.AuthService.RefreshAccess(ctx, refresh)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		log.Error("refresh failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.SetAccessCookie(w, access, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "access token refreshed"})
}

// HandleProfile godoc
//
//	@Summary		Get the authenticated user's profile
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	domain.UserView
//	@Failure		401	{object}	httpx.ErrorResponse	"Not authenticated"
//	@Failure		404	{object}	httpx.ErrorResponse	"Account no longer exists"
//	@Router			/api/auth/profile [get].
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, err := h.AuthService.GetProfile(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		log.Error("profile load failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, user)
}

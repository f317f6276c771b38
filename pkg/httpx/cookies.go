package httpx

import (
	"net/http"
	"time"

	"github.com/wattlecart/storefront/pkg/jwtx"
)

// Cookie names are part of the contract with the web client.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

func authCookie(name, value string, maxAge time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,            // not readable from JS
		Secure:   secure,          // HTTPS only in production
		SameSite: http.SameSiteStrictMode,
	}
}

// SetAuthCookies attaches both auth cookies to the response.
func SetAuthCookies(w http.ResponseWriter, accessToken, refreshToken string, secure bool) {
	http.SetCookie(w, authCookie(AccessTokenCookie, accessToken, jwtx.DefaultAccessTokenTTL, secure))
	http.SetCookie(w, authCookie(RefreshTokenCookie, refreshToken, jwtx.DefaultRefreshTokenTTL, secure))
}

// SetAccessCookie resets only the access-token cookie (refresh flow).
func SetAccessCookie(w http.ResponseWriter, accessToken string, secure bool) {
	http.SetCookie(w, authCookie(AccessTokenCookie, accessToken, jwtx.DefaultAccessTokenTTL, secure))
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, authCookie(AccessTokenCookie, "", -time.Second, secure))
	http.SetCookie(w, authCookie(RefreshTokenCookie, "", -time.Second, secure))
}

// CookieValue reads a cookie off the request, "" when absent.
func CookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

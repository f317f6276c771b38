package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/wattlecart/storefront/internal/shop/cache"
	"github.com/wattlecart/storefront/internal/shop/domain"
	"github.com/wattlecart/storefront/internal/shop/service"
	"github.com/wattlecart/storefront/internal/shop/store"
	"github.com/wattlecart/storefront/pkg/httpx"
	"github.com/wattlecart/storefront/pkg/jwtx"
	"github.com/wattlecart/storefront/pkg/slogx"

	_ "github.com/wattlecart/storefront/api/shop" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier      jwtx.Verifier
	buildVersion  string
	secureCookies bool
	startTime     time.Time
	logger        *slog.Logger

	store    store.Store
	featured *cache.FeaturedCache

	AuthService    *service.AuthService
	ProductService *service.ProductService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	secureCookies bool,
	st store.Store,
	featured *cache.FeaturedCache,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		verifier:      verifier,
		buildVersion:  buildVersion,
		secureCookies: secureCookies,
		startTime:     time.Now(),
		store:         st,
		featured:      featured,
		logger:        logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProducts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Wattlecart Storefront API
//	@version		0.1.0
//	@description	E-commerce backend: cookie-based JWT authentication with server-side
//	@description	revocable sessions, and a product catalog with a Redis-backed featured list.
//
//	@contact.name	Wattlecart Team
//	@contact.url	https://github.com/wattlecart/storefront
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// resolveUser adapts the auth service to the authn middleware: a verified
// subject must still map onto a live account.
func (r *Router) resolveUser(ctx context.Context, userID string) (httpx.AuthUser, error) {
	view, err := r.AuthService.GetProfile(ctx, userID)
	if err != nil {
		return httpx.AuthUser{}, err
	}
	return httpx.AuthUser{ID: view.ID, Role: view.Role}, nil
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:   r.AuthService,
		SecureCookies: r.secureCookies,
	}

	// Credential endpoints get the strict limit (brute force prevention)
	r.Mux.Handle("POST /api/auth/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/refresh-token",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /api/auth/profile",
		httpx.Chain(http.HandlerFunc(h.HandleProfile),
			httpx.AuthnMiddleware(r.verifier, r.resolveUser),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerProducts() {
	h := &ProductsHandler{ProductService: r.ProductService}

	authn := httpx.AuthnMiddleware(r.verifier, r.resolveUser)
	admin := httpx.RequireRole(domain.RoleAdmin)

	// Public catalog reads
	r.Mux.Handle("GET /api/products/featured",
		httpx.Chain(http.HandlerFunc(h.HandleFeatured),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /api/products/recommendations",
		httpx.Chain(http.HandlerFunc(h.HandleRecommendations),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	// Literal patterns (featured, recommendations) win over the {category}
	// wildcard under ServeMux precedence rules.
	r.Mux.Handle("GET /api/products/{category}",
		httpx.Chain(http.HandlerFunc(h.HandleByCategory),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// Admin catalog management. RequireRole depends on the user the authn
	// middleware attaches, so authn must come first in the chain.
	r.Mux.Handle("GET /api/products",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			authn, admin,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /api/products",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			authn, admin,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /api/products/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			authn, admin,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /api/products/toggle-featured/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleToggleFeatured),
			authn, admin,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.featured),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wattlecart/storefront/internal/shop/cache"
	httpapi "github.com/wattlecart/storefront/internal/shop/http"
	"github.com/wattlecart/storefront/internal/shop/media"
	"github.com/wattlecart/storefront/internal/shop/service"
	"github.com/wattlecart/storefront/internal/shop/session"
	"github.com/wattlecart/storefront/internal/shop/store"
	"github.com/wattlecart/storefront/internal/shop/store/drivers/sqlite"
	"github.com/wattlecart/storefront/pkg/cryptox"
	"github.com/wattlecart/storefront/pkg/jwtx"
	"github.com/wattlecart/storefront/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the storefront service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db  store.Store
	rdb *redis.Client

	sessions *session.Store
	featured *cache.FeaturedCache
	access   *jwtx.HS256

	// Services
	authService    *service.AuthService
	productService *service.ProductService
	refresher      *service.CacheRefresherService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "storefront",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be set")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, errors.New("access and refresh token secrets must differ")
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initRedis()
	app.initServices()

	if err := app.seedAdmin(); err != nil {
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start the background featured-cache refresher
	app.refresher.Start()

	app.logger.Info("storefront starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down storefront...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the cache refresher
	app.refresher.Stop()

	// Close the Redis client
	if err := app.rdb.Close(); err != nil {
		app.logger.Error("error closing redis client", "error", err)
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("storefront stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initRedis sets up the shared Redis client plus the two stores living on it.
func (app *Application) initRedis() {
	app.rdb = redis.NewClient(&redis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPass,
	})

	app.sessions = session.NewStore(app.rdb, jwtx.DefaultRefreshTokenTTL)
	app.featured = cache.NewFeaturedCache(app.rdb)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.access = jwtx.NewHS256([]byte(app.cfg.AccessTokenSecret), app.cfg.Issuer, jwtx.DefaultAccessTokenTTL)
	refresh := jwtx.NewHS256([]byte(app.cfg.RefreshTokenSecret), app.cfg.Issuer, jwtx.DefaultRefreshTokenTTL)

	app.authService = &service.AuthService{
		Store:    app.db,
		Sessions: app.sessions,
		Access:   app.access,
		Refresh:  refresh,
	}

	var mediaService media.Service = media.Disabled{}
	if app.cfg.MediaBaseURL != "" {
		mediaService = media.NewClient(media.Config{
			BaseURL: app.cfg.MediaBaseURL,
			APIKey:  app.cfg.MediaAPIKey,
		})
		app.logger.Info("media service enabled", "base_url", app.cfg.MediaBaseURL)
	} else {
		app.logger.Info("media service disabled (no MEDIA_BASE_URL)")
	}

	app.productService = &service.ProductService{
		Store:    app.db,
		Featured: app.featured,
		Media:    mediaService,
	}

	app.refresher = service.NewCacheRefresherService(
		app.productService,
		app.logger,
		app.cfg.CacheRefreshInterval,
	)
}

// seedAdmin creates the initial admin account on an empty database.
func (app *Application) seedAdmin() error {
	seed := &service.SeedService{
		Store:         app.db,
		AdminUsername: app.cfg.AdminUsername,
		AdminEmail:    app.cfg.AdminEmail,
		AdminPassword: app.cfg.AdminPassword,
	}

	err := seed.SeedAdmin(context.Background())
	if errors.Is(err, service.ErrSeedNotConfigured) {
		app.logger.Warn("no users exist and no admin seed configured; admin endpoints unreachable")
		return nil
	}
	return err
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.access,
		BuildVersion,
		app.cfg.IsProd(),
		app.db,
		app.featured,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.ProductService = app.productService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

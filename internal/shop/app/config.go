package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer string // Issuer claim stamped into tokens

	AccessTokenSecret  string // Required: HMAC secret for access tokens
	RefreshTokenSecret string // Required: HMAC secret for refresh tokens (distinct from access)

	DatabaseFile string // Optional: path to SQLite database file (default: ./storefront.db)
	RedisAddr    string // Optional: Redis host:port (default: localhost:6379)
	RedisPass    string // Optional: Redis password
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	MediaBaseURL string // Optional: image host base URL; uploads disabled when empty
	MediaAPIKey  string // Optional: image host API key

	AdminUsername string // Optional: username for the seeded admin (default: admin)
	AdminEmail    string // Optional: if set with AdminPassword, seeds an admin on empty DB
	AdminPassword string // Optional

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	CacheRefreshInterval time.Duration // Featured cache refresh interval (default: 1h)
}

// IsProd reports whether the service runs in production mode; auth cookies
// only get the Secure flag there.
func (c Config) IsProd() bool { return c.Env == "prod" }

func LoadConfig() Config {
	cfg := Config{
		Issuer:             getEnvOrDefault("AUTH_ISSUER", "storefront"),
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "storefront.db"),
		RedisAddr:    getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		PepperFile:   getEnvOrDefault("PEPPER_FILE", "pepper"),

		MediaBaseURL: os.Getenv("MEDIA_BASE_URL"),
		MediaAPIKey:  os.Getenv("MEDIA_API_KEY"),

		AdminUsername: getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		CacheRefreshInterval: getEnvDurationOrDefault("CACHE_REFRESH_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

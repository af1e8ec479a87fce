package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	CORSAllowedOrigins []string

	AdminUser         string
	AdminPassword     string
	AdminPasswordHash string

	StoreName        string
	StorePhone       string
	WhatsAppGateway  string
	WhatsAppToken    string
	GatewayTimeoutMs int
	AdminTokenTTL    time.Duration
	CartTTL          time.Duration
	CatalogCacheTTL  time.Duration
	IdempotencyTTL   time.Duration
	LoginRateLimit   int
	LoginRateWindow  time.Duration
	CookieDomain     string
	CookieSecure     bool
	RequestBodyLimit int64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		JWTSecret:          k.String("JWT_SECRET"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		AdminUser:          valueOrDefault(k.String("ADMIN_USER"), "admin"),
		AdminPassword:      k.String("ADMIN_PASSWORD"),
		AdminPasswordHash:  k.String("ADMIN_PASSWORD_HASH"),
		StoreName:          valueOrDefault(k.String("STORE_NAME"), "Mercado do Jaci"),
		StorePhone:         valueOrDefault(k.String("STORE_PHONE"), "553898792631"),
		WhatsAppGateway:    strings.TrimSpace(k.String("WHATSAPP_GATEWAY_URL")),
		WhatsAppToken:      k.String("WHATSAPP_GATEWAY_TOKEN"),
		GatewayTimeoutMs:   parseInt(k.String("WHATSAPP_GATEWAY_TIMEOUT_MS"), 5000),
		AdminTokenTTL:      parseDuration(k.String("ADMIN_TOKEN_TTL"), "12h"),
		CartTTL:            parseDuration(k.String("CART_TTL"), "168h"),
		CatalogCacheTTL:    parseDuration(k.String("CATALOG_CACHE_TTL"), "5m"),
		IdempotencyTTL:     parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		LoginRateLimit:     parseInt(k.String("LOGIN_RATE_LIMIT"), 10),
		LoginRateWindow:    parseDuration(k.String("LOGIN_RATE_WINDOW"), "1m"),
		CookieDomain:       strings.TrimSpace(k.String("COOKIE_DOMAIN")),
		CookieSecure:       parseBool(k.String("COOKIE_SECURE")),
		RequestBodyLimit:   int64(parseInt(k.String("REQUEST_BODY_LIMIT"), 1<<20)),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return nil, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(trimmed, "%d", &n); err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// MustLoad behaves like Load but panics on error. Useful for command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching
// the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/smartscholars/accounts/internal/middleware"
)

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the server configuration read from the environment
type Config struct {
	// Application
	AppEnv    string
	Port      string
	PublicURL string

	// Storage
	StorageType         string
	AccountsFile        string
	RedisURL            string
	StoreAcquireTimeout time.Duration

	// Security
	ResetTokenTTL   time.Duration
	SessionDuration time.Duration
	RateLimit       int
	RateLimitWindow time.Duration
	TrustedProxies  []netip.Prefix

	// Email (RESEND_API_KEY optional in development, required in production)
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string
}

// Load reads a .env file if present and then the environment.
// Values that fail to parse are reported together with Validate's errors.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	env := &envReader{}
	cfg := &Config{
		AppEnv:    env.String("APP_ENV", EnvDevelopment),
		Port:      env.String("PORT", "8080"),
		PublicURL: env.String("PUBLIC_URL", "http://localhost:8080"),

		StorageType:         env.String("STORAGE_TYPE", "file"),
		AccountsFile:        env.String("ACCOUNTS_FILE", "users.json"),
		RedisURL:            env.String("REDIS_URL", ""),
		StoreAcquireTimeout: env.Duration("STORE_ACQUIRE_TIMEOUT", 5*time.Second),

		ResetTokenTTL:   env.Duration("RESET_TOKEN_TTL", time.Hour),
		SessionDuration: env.Duration("SESSION_DURATION", 24*time.Hour),
		RateLimit:       env.Int("RATE_LIMIT", 5),
		RateLimitWindow: env.Duration("RATE_LIMIT_WINDOW", 15*time.Minute),
		TrustedProxies:  env.Prefixes("TRUSTED_PROXIES"),

		EmailFrom:    env.String("EMAIL_FROM", "noreply@smartscholars.example"),
		ResendAPIKey: env.String("RESEND_API_KEY", ""),

		SentryDSN: env.String("SENTRY_DSN", ""),
	}

	if err := errors.Join(errors.Join(env.errs...), cfg.Validate()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations that cannot work at runtime.
// Development allows email to fall back to log mode.
func (c *Config) Validate() error {
	var errs []error
	switch c.AppEnv {
	case EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.AppEnv))
	}
	switch c.StorageType {
	case "file", "memory":
	case "redis":
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL required when STORAGE_TYPE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid STORAGE_TYPE %q: must be 'file', 'redis' or 'memory'", c.StorageType))
	}
	if c.IsProduction() && c.ResendAPIKey == "" {
		errs = append(errs, errors.New("production deployment requires RESEND_API_KEY"))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT must be positive"))
	}
	for name, d := range map[string]time.Duration{
		"RATE_LIMIT_WINDOW":     c.RateLimitWindow,
		"STORE_ACQUIRE_TIMEOUT": c.StoreAcquireTimeout,
		"RESET_TOKEN_TTL":       c.ResetTokenTTL,
		"SESSION_DURATION":      c.SessionDuration,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// envReader reads typed environment values, remembering every parse failure
type envReader struct {
	errs []error
}

func (e *envReader) String(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func (e *envReader) Int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not an integer", key, v))
		return def
	}
	return i
}

func (e *envReader) Duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not a duration", key, v))
		return def
	}
	return d
}

// Prefixes reads a comma-separated list of CIDR prefixes or single IPs
func (e *envReader) Prefixes(key string) []netip.Prefix {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	prefixes, err := middleware.ParseTrustedProxies(strings.Split(v, ","))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return nil
	}
	return prefixes
}

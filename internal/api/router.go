package api

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/gorilla/mux"

	"github.com/smartscholars/accounts/internal/api/apierr"
	"github.com/smartscholars/accounts/internal/api/handler"
	"github.com/smartscholars/accounts/internal/api/middleware"
	"github.com/smartscholars/accounts/internal/api/response"
	"github.com/smartscholars/accounts/internal/dependencies/clock"
	basemiddleware "github.com/smartscholars/accounts/internal/middleware"
	"github.com/smartscholars/accounts/internal/services/credential"
	"github.com/smartscholars/accounts/internal/services/reset"
	"github.com/smartscholars/accounts/internal/services/session"
)

// RateLimitConfig bounds requests per client on the credential endpoints
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// TrustedProxies are peers whose X-Forwarded-For and X-Real-IP headers are believed
	TrustedProxies []netip.Prefix
}

// DefaultRateLimitConfig returns 5 requests per 15 minutes
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:  5,
		Window: 15 * time.Minute,
	}
}

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	Clock             clock.Clock
	CredentialService *credential.Service
	ResetService      *reset.Service
	SessionService    *session.Service
	RateLimit         RateLimitConfig
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	if cfg.RateLimit.Limit <= 0 || cfg.RateLimit.Window <= 0 {
		trusted := cfg.RateLimit.TrustedProxies
		cfg.RateLimit = DefaultRateLimitConfig()
		cfg.RateLimit.TrustedProxies = trusted
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.CredentialService, cfg.SessionService)
	resetHandler := handler.NewResetHandler(cfg.ResetService, cfg.SessionService, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.SessionService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := basemiddleware.Recovery(cfg.Logger, apierr.WritePanic)
	limiter := basemiddleware.NewRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window, cfg.Clock)
	clientIPs := basemiddleware.NewClientIPResolver(cfg.RateLimit.TrustedProxies)
	rateLimitMiddleware := middleware.RateLimit(limiter, clientIPs, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(basemiddleware.RequestID)
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Credential routes (rate limited, no auth)
	limited := api.NewRoute().Subrouter()
	limited.Use(rateLimitMiddleware)
	limited.HandleFunc("/accounts/register", accountHandler.Register).Methods(http.MethodPost)
	limited.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)
	limited.HandleFunc("/password-resets", resetHandler.Request).Methods(http.MethodPost)

	// Reset link routes (the token is the credential)
	api.HandleFunc("/password-resets/{token}", resetHandler.Check).Methods(http.MethodGet)
	api.HandleFunc("/password-resets/{token}", resetHandler.Complete).Methods(http.MethodPost)

	// Protected account routes
	accounts := api.PathPrefix("/accounts").Subrouter()
	accounts.Use(authMiddleware)
	accounts.HandleFunc("/logout", accountHandler.Logout).Methods(http.MethodPost)
	accounts.HandleFunc("/me", accountHandler.GetMe).Methods(http.MethodGet)
	accounts.HandleFunc("/me/password", accountHandler.ChangePassword).Methods(http.MethodPost)
	accounts.HandleFunc("/me/premium", accountHandler.UpgradePremium).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

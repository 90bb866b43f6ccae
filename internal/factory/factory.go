package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/smartscholars/accounts/internal/dependencies/clock"
	"github.com/smartscholars/accounts/internal/dependencies/random"
	"github.com/smartscholars/accounts/internal/password"
	"github.com/smartscholars/accounts/internal/services/credential"
	"github.com/smartscholars/accounts/internal/services/delivery"
	"github.com/smartscholars/accounts/internal/services/reset"
	"github.com/smartscholars/accounts/internal/services/session"
	"github.com/smartscholars/accounts/internal/storage"
	"github.com/smartscholars/accounts/internal/storage/file"
	"github.com/smartscholars/accounts/internal/storage/memory"
	redisstorage "github.com/smartscholars/accounts/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeFile   = "file"
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// DefaultAccountsFile is the record file used when none is configured
const DefaultAccountsFile = "users.json"

// App contains all wired application components
type App struct {
	// Storage
	Store storage.RecordStore
	Guard *storage.Guard

	// External dependencies
	Clock     clock.Clock
	Random    random.Random
	Hasher    password.Hasher
	Deliverer delivery.Deliverer

	// Services
	CredentialService *credential.Service
	ResetService      *reset.Service
	SessionService    *session.Service

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("file", "memory" or "redis")
	// If empty, defaults to "file"
	StorageType string
	// AccountsFile is the record file for the file backend
	// If empty, defaults to DefaultAccountsFile
	AccountsFile string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// GuardConfig bounds how long operations wait for the store
	GuardConfig storage.GuardConfig
	// ResetConfig holds reset token settings (optional)
	ResetConfig reset.Config
	// SessionConfig holds session settings (optional)
	SessionConfig session.Config
	// Deliverer sends reset links (optional)
	// If nil, links are only logged
	Deliverer delivery.Deliverer
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var (
		store   storage.RecordStore
		closers []io.Closer
	)
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeFile
	}

	switch storageType {
	case StorageTypeFile:
		path := cfg.AccountsFile
		if path == "" {
			path = DefaultAccountsFile
		}
		store = file.New(path, logger)
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig, logger)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'file', 'memory' or 'redis'", storageType)
	}

	deliverer := cfg.Deliverer
	if deliverer == nil {
		deliverer = delivery.NewLogDeliverer(logger)
	}

	resetCfg := cfg.ResetConfig
	if resetCfg.TokenTTL == 0 {
		resetCfg.TokenTTL = reset.DefaultConfig().TokenTTL
	}
	if resetCfg.PublicURL == "" {
		resetCfg.PublicURL = reset.DefaultConfig().PublicURL
	}

	app := newWithDependencies(dependencies{
		store:      store,
		guardCfg:   cfg.GuardConfig,
		clock:      clock.New(),
		random:     random.New(),
		hasher:     password.NewBcrypt(),
		deliverer:  deliverer,
		resetCfg:   resetCfg,
		sessionCfg: cfg.SessionConfig,
		logger:     logger,
	})
	app.closers = closers
	return app, nil
}

// Close releases backend connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

type dependencies struct {
	store      storage.RecordStore
	guardCfg   storage.GuardConfig
	clock      clock.Clock
	random     random.Random
	hasher     password.Hasher
	deliverer  delivery.Deliverer
	resetCfg   reset.Config
	sessionCfg session.Config
	logger     *slog.Logger
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(deps dependencies) *App {
	guard := storage.NewGuard(deps.store, deps.guardCfg)

	credentialService := credential.New(guard, deps.hasher, deps.clock, deps.logger)
	resetService := reset.New(guard, deps.hasher, deps.clock, deps.random, deps.deliverer, deps.resetCfg, deps.logger)
	sessionService := session.New(deps.clock, deps.random, deps.sessionCfg)

	return &App{
		Store:             deps.store,
		Guard:             guard,
		Clock:             deps.clock,
		Random:            deps.random,
		Hasher:            deps.hasher,
		Deliverer:         deps.deliverer,
		CredentialService: credentialService,
		ResetService:      resetService,
		SessionService:    sessionService,
	}
}

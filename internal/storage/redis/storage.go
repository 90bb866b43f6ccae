package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartscholars/accounts/internal/model"
	"github.com/smartscholars/accounts/internal/storage"
)

// Storage is a Redis-backed implementation of the record store.
// The collection lives in a single list, replaced in one MULTI/EXEC on save.
type Storage struct {
	client *redis.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a new Redis storage instance
func New(cfg Config, logger *slog.Logger) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis: %w", model.ErrStorageUnavailable, err)
	}

	return NewWithClient(client, cfg, logger), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, logger *slog.Logger) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.RecordStore = (*Storage)(nil)

func (s *Storage) LoadAll(ctx context.Context) ([]model.Account, error) {
	values, err := s.client.LRange(ctx, accountsKey(s.cfg.KeyPrefix), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: load accounts: %w", model.ErrStorageUnavailable, err)
	}

	accounts := make([]model.Account, 0, len(values))
	for i, val := range values {
		var account model.Account
		if err := json.Unmarshal([]byte(val), &account); err != nil {
			s.logger.WarnContext(ctx, "skipping malformed account entry",
				slog.Int("index", i),
				slog.String("reason", "invalid json"),
			)
			continue
		}
		if account.Identity == "" || !account.Consistent() {
			s.logger.WarnContext(ctx, "skipping malformed account entry",
				slog.Int("index", i),
				slog.String("reason", "missing identity or unpaired reset token"),
			)
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (s *Storage) SaveAll(ctx context.Context, accounts []model.Account) error {
	values := make([]any, 0, len(accounts))
	for _, a := range accounts {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encode account: %w", err)
		}
		values = append(values, data)
	}

	key := accountsKey(s.cfg.KeyPrefix)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.RPush(ctx, key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: save accounts: %w", model.ErrStorageUnavailable, err)
	}
	return nil
}

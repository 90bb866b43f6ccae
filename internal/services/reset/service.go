package reset

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/smartscholars/accounts/internal/dependencies/clock"
	"github.com/smartscholars/accounts/internal/dependencies/random"
	"github.com/smartscholars/accounts/internal/model"
	"github.com/smartscholars/accounts/internal/password"
	"github.com/smartscholars/accounts/internal/services/delivery"
	"github.com/smartscholars/accounts/internal/storage"
)

// TokenBytes is the entropy of a reset token before hex encoding (256 bits)
const TokenBytes = 32

// Config holds reset token settings
type Config struct {
	// TokenTTL is how long an issued token stays redeemable
	TokenTTL time.Duration
	// PublicURL is the base of the link sent to the account holder
	PublicURL string
}

// DefaultConfig returns default reset configuration
func DefaultConfig() Config {
	return Config{
		TokenTTL:  time.Hour,
		PublicURL: "http://localhost:8080",
	}
}

// Handle references the account a token belongs to. It is returned by Redeem
// and is only a view: Consume re-validates the token itself.
type Handle struct {
	Identity  model.Identity
	Token     string
	ExpiresAt time.Time
}

// Service issues and redeems password reset tokens
type Service struct {
	guard     *storage.Guard
	hasher    password.Hasher
	clock     clock.Clock
	random    random.Random
	deliverer delivery.Deliverer
	config    Config
	logger    *slog.Logger
}

// New creates a new ResetTokenService
func New(
	guard *storage.Guard,
	hasher password.Hasher,
	clock clock.Clock,
	random random.Random,
	deliverer delivery.Deliverer,
	config Config,
	logger *slog.Logger,
) *Service {
	if config.TokenTTL <= 0 {
		config.TokenTTL = DefaultConfig().TokenTTL
	}
	return &Service{
		guard:     guard,
		hasher:    hasher,
		clock:     clock,
		random:    random,
		deliverer: deliverer,
		config:    config,
		logger:    logger,
	}
}

// Issue attaches a fresh token to the account, replacing any earlier one, and sends
// the reset link. The token is persisted before delivery; if delivery fails the token
// is still returned alongside an error wrapping ErrDeliveryFailed.
func (s *Service) Issue(ctx context.Context, identity model.Identity) (string, error) {
	token, err := s.random.Token(TokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	var expiresAt time.Time
	err = s.guard.Update(ctx, func(accounts []model.Account) ([]model.Account, error) {
		i := model.FindAccount(accounts, identity)
		if i < 0 {
			return nil, model.ErrNotFound
		}
		now := s.clock.Now()
		expiresAt = now.Add(s.config.TokenTTL)
		accounts[i].SetResetToken(token, expiresAt)
		accounts[i].UpdatedAt = now
		return accounts, nil
	})
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "reset token issued",
		slog.String("identity", string(identity)),
		slog.Time("expires_at", expiresAt),
	)

	link := delivery.ResetLink(s.config.PublicURL, token)
	if err := s.deliverer.SendResetLink(ctx, identity, link); err != nil {
		s.logger.ErrorContext(ctx, "reset link delivery failed",
			slog.String("identity", string(identity)),
			slog.String("error", err.Error()),
		)
		return token, fmt.Errorf("%w: %w", model.ErrDeliveryFailed, err)
	}
	return token, nil
}

// Redeem checks that a token is live without changing anything
func (s *Service) Redeem(ctx context.Context, token string) (*Handle, error) {
	var handle *Handle
	err := s.guard.View(ctx, func(accounts []model.Account) error {
		i := s.findLive(accounts, token)
		if i < 0 {
			return model.ErrInvalidOrExpiredToken
		}
		handle = &Handle{
			Identity:  accounts[i].Identity,
			Token:     token,
			ExpiresAt: *accounts[i].ResetTokenExpiry,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return handle, nil
}

// Consume sets a new password for the token's account and clears the token.
// The token is validated again inside the same guarded update, so of two racing
// calls only one can succeed.
func (s *Service) Consume(ctx context.Context, token, plaintext, confirm string) (*model.Account, error) {
	policyErr := password.ValidatePair(plaintext, confirm)
	var hash string
	if policyErr == nil {
		var err error
		hash, err = s.hasher.Hash(plaintext)
		if err != nil {
			return nil, err
		}
	}

	var updated model.Account
	err := s.guard.Update(ctx, func(accounts []model.Account) ([]model.Account, error) {
		i := s.findLive(accounts, token)
		if i < 0 {
			return nil, model.ErrInvalidOrExpiredToken
		}
		if policyErr != nil {
			return nil, policyErr
		}
		accounts[i].PasswordHash = hash
		accounts[i].ClearResetToken()
		accounts[i].UpdatedAt = s.clock.Now()
		updated = accounts[i]
		return accounts, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "password reset", slog.String("identity", string(updated.Identity)))
	return updated.Public(), nil
}

// findLive returns the index of the account holding token if it has not expired, or -1.
// Every stored token is compared in full and in constant time.
func (s *Service) findLive(accounts []model.Account, token string) int {
	if token == "" {
		return -1
	}
	now := s.clock.Now()
	match := -1
	for i := range accounts {
		if accounts[i].ResetToken == nil {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(*accounts[i].ResetToken), []byte(token)) == 1 {
			match = i
		}
	}
	if match < 0 || !accounts[match].ResetTokenLive(now) {
		return -1
	}
	return match
}

package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/smartscholars/accounts/internal/dependencies/clock"
	"github.com/smartscholars/accounts/internal/model"
	"github.com/smartscholars/accounts/internal/password"
	"github.com/smartscholars/accounts/internal/storage"
)

// Service handles registration, password verification and account updates
type Service struct {
	guard  *storage.Guard
	hasher password.Hasher
	clock  clock.Clock
	logger *slog.Logger

	// dummyHash is compared against when an identity is unknown so both
	// failure paths spend the same bcrypt time
	dummyHash string
}

// New creates a new CredentialService
func New(guard *storage.Guard, hasher password.Hasher, clock clock.Clock, logger *slog.Logger) *Service {
	dummy, err := hasher.Hash("dummy-Password1!")
	if err != nil {
		logger.Warn("could not prepare dummy hash", slog.String("error", err.Error()))
	}
	return &Service{
		guard:     guard,
		hasher:    hasher,
		clock:     clock,
		logger:    logger,
		dummyHash: dummy,
	}
}

// Register creates a new account.
// Field limits are checked first, then in order: duplicate identity, password mismatch, weak password.
func (s *Service) Register(ctx context.Context, identity model.Identity, displayName, plaintext, confirm string) (*model.Account, error) {
	if identity == "" || utf8.RuneCountInString(string(identity)) > model.MaxIdentityLength {
		return nil, model.ErrInvalidIdentity
	}
	if utf8.RuneCountInString(displayName) > model.MaxDisplayNameLength {
		return nil, model.ErrInvalidDisplayName
	}

	// Hash before taking the store so bcrypt does not serialise behind the guard
	policyErr := password.ValidatePair(plaintext, confirm)
	var hash string
	if policyErr == nil {
		var err error
		hash, err = s.hasher.Hash(plaintext)
		if err != nil {
			return nil, err
		}
	}

	var created model.Account
	err := s.guard.Update(ctx, func(accounts []model.Account) ([]model.Account, error) {
		if model.FindAccount(accounts, identity) >= 0 {
			return nil, model.ErrDuplicateIdentity
		}
		if policyErr != nil {
			return nil, policyErr
		}

		now := s.clock.Now()
		created = model.Account{
			Identity:     identity,
			DisplayName:  displayName,
			PasswordHash: hash,
			Premium:      false,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return append(accounts, created), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account registered", slog.String("identity", string(identity)))
	return created.Public(), nil
}

// Verify checks a password against the stored hash and returns the account
func (s *Service) Verify(ctx context.Context, identity model.Identity, plaintext string) (*model.Account, error) {
	var (
		account *model.Account
		stored  string
	)
	err := s.guard.View(ctx, func(accounts []model.Account) error {
		i := model.FindAccount(accounts, identity)
		if i < 0 {
			return model.ErrNotFound
		}
		account = accounts[i].Public()
		stored = accounts[i].PasswordHash
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			_ = s.hasher.Compare(s.dummyHash, plaintext)
		}
		return nil, err
	}

	if err := s.hasher.Compare(stored, plaintext); err != nil {
		s.logger.InfoContext(ctx, "password verification failed", slog.String("identity", string(identity)))
		return nil, model.ErrInvalidCredential
	}
	return account, nil
}

// ChangePassword replaces the password of an existing account.
// Any pending reset token is discarded since it was issued for the old password.
func (s *Service) ChangePassword(ctx context.Context, identity model.Identity, plaintext, confirm string) (*model.Account, error) {
	if err := password.ValidatePair(plaintext, confirm); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	updated, err := s.update(ctx, identity, func(a *model.Account) {
		a.PasswordHash = hash
		a.ClearResetToken()
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "password changed", slog.String("identity", string(identity)))
	return updated, nil
}

// SetPremium marks an account as upgraded (or not). Called by the payment flow.
func (s *Service) SetPremium(ctx context.Context, identity model.Identity, premium bool) (*model.Account, error) {
	updated, err := s.update(ctx, identity, func(a *model.Account) {
		a.Premium = premium
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "premium status updated",
		slog.String("identity", string(identity)),
		slog.Bool("premium", premium),
	)
	return updated, nil
}

// Get returns the public view of an account
func (s *Service) Get(ctx context.Context, identity model.Identity) (*model.Account, error) {
	var found *model.Account
	err := s.guard.View(ctx, func(accounts []model.Account) error {
		i := model.FindAccount(accounts, identity)
		if i < 0 {
			return model.ErrNotFound
		}
		found = accounts[i].Public()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// update applies mutate to one account inside a single guarded load-mutate-save
func (s *Service) update(ctx context.Context, identity model.Identity, mutate func(a *model.Account)) (*model.Account, error) {
	var updated model.Account
	err := s.guard.Update(ctx, func(accounts []model.Account) ([]model.Account, error) {
		i := model.FindAccount(accounts, identity)
		if i < 0 {
			return nil, model.ErrNotFound
		}
		mutate(&accounts[i])
		accounts[i].UpdatedAt = s.clock.Now()
		updated = accounts[i]
		return accounts, nil
	})
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return updated.Public(), nil
}

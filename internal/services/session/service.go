package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/smartscholars/accounts/internal/dependencies/clock"
	"github.com/smartscholars/accounts/internal/dependencies/random"
	"github.com/smartscholars/accounts/internal/model"
)

const tokenBytes = 32

// sweepEvery is how many Start calls pass between sweeps of expired sessions
const sweepEvery = 256

// Session represents an authenticated session
type Session struct {
	Token     string
	Identity  model.Identity
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the session service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// Service binds verified identities to opaque session tokens
type Service struct {
	clock  clock.Clock
	random random.Random

	mu       sync.RWMutex
	sessions map[string]*Session
	starts   int

	sessionDuration time.Duration
}

// New creates a new SessionAuthenticator
func New(clock clock.Clock, random random.Random, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		clock:           clock,
		random:          random,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// Start creates a session for an account that has already been verified
func (s *Service) Start(account *model.Account) (*Session, error) {
	if account == nil || account.Identity == "" {
		return nil, model.ErrInvalidIdentity
	}

	token, err := s.random.Token(tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	now := s.clock.Now()

	session := &Session{
		Token:     token,
		Identity:  account.Identity,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.starts++
	if s.starts%sweepEvery == 0 {
		s.removeExpired(now)
	}
	s.sessions[token] = session
	s.mu.Unlock()

	copied := *session
	return &copied, nil
}

// Validate checks if a session token is valid and returns the session
func (s *Service) Validate(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, model.ErrInvalidSession
	}

	if !s.clock.Now().Before(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, model.ErrInvalidSession
	}

	copied := *session
	return &copied, nil
}

// End removes a session. Unknown tokens are ignored.
func (s *Service) End(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// EndAllFor removes every session bound to identity and returns how many were removed
func (s *Service) EndAllFor(identity model.Identity) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if session.Identity == identity {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// CleanExpired removes expired sessions and returns how many were removed.
// Start also sweeps every sweepEvery sessions, so the table stays bounded
// without a background goroutine.
func (s *Service) CleanExpired() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeExpired(now)
}

// removeExpired drops sessions expired at now. Caller holds mu.
func (s *Service) removeExpired(now time.Time) int {
	removed := 0
	for token, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Count returns the number of sessions currently held, expired or not
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

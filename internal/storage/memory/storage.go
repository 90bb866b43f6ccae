package memory

import (
	"context"
	"sync"

	"github.com/smartscholars/accounts/internal/model"
	"github.com/smartscholars/accounts/internal/storage"
)

// Storage is an in-memory implementation of the record store
type Storage struct {
	mu       sync.RWMutex
	accounts []model.Account

	// FailWith, when set, is returned from every operation (for testing failure paths)
	FailWith error
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.RecordStore = (*Storage)(nil)

func (s *Storage) LoadAll(ctx context.Context) ([]model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	return model.CloneAccounts(s.accounts), nil
}

func (s *Storage) SaveAll(ctx context.Context, accounts []model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	s.accounts = model.CloneAccounts(accounts)
	return nil
}

// Len returns the number of stored accounts
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

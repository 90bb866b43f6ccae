package storage

import (
	"context"

	"github.com/smartscholars/accounts/internal/model"
)

// RecordStore persists the whole account collection.
//
// Writes replace the entire collection; there are no partial updates. A store
// has no transactional guarantee across LoadAll -> mutate -> SaveAll, so callers
// go through a Guard for that.
type RecordStore interface {
	// LoadAll returns every account. A store with nothing persisted yet returns an empty slice.
	LoadAll(ctx context.Context) ([]model.Account, error)

	// SaveAll replaces the persisted collection with accounts
	SaveAll(ctx context.Context, accounts []model.Account) error
}

package storage

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/smartscholars/accounts/internal/model"
)

// GuardConfig holds settings for the record store guard
type GuardConfig struct {
	// AcquireTimeout bounds how long an operation waits for the store before failing with ErrStorageBusy
	AcquireTimeout time.Duration
}

// DefaultGuardConfig returns default guard configuration
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		AcquireTimeout: 5 * time.Second,
	}
}

// Guard serialises every load -> mutate -> save cycle against a RecordStore.
//
// The store is replaced wholesale on every write, so two interleaved writers would
// silently drop each other's update. Readers take the same slot so they always see a
// snapshot that some writer actually saved.
type Guard struct {
	store   RecordStore
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewGuard wraps store with a single-writer guard
func NewGuard(store RecordStore, cfg GuardConfig) *Guard {
	if cfg.AcquireTimeout <= 0 {
		cfg.AcquireTimeout = DefaultGuardConfig().AcquireTimeout
	}
	return &Guard{
		store:   store,
		sem:     semaphore.NewWeighted(1),
		timeout: cfg.AcquireTimeout,
	}
}

// View loads the collection and passes it to fn while holding the guard.
// fn must not retain the slice after returning.
func (g *Guard) View(ctx context.Context, fn func(accounts []model.Account) error) error {
	if err := g.acquire(ctx); err != nil {
		return err
	}
	defer g.sem.Release(1)

	accounts, err := g.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	return fn(accounts)
}

// Update loads the collection, applies fn and saves the result, all while holding the guard.
// If fn returns an error nothing is saved.
func (g *Guard) Update(ctx context.Context, fn func(accounts []model.Account) ([]model.Account, error)) error {
	if err := g.acquire(ctx); err != nil {
		return err
	}
	defer g.sem.Release(1)

	accounts, err := g.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	updated, err := fn(accounts)
	if err != nil {
		return err
	}

	return g.store.SaveAll(ctx, updated)
}

func (g *Guard) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("waited %s: %w", g.timeout, model.ErrStorageBusy)
	}
	return nil
}

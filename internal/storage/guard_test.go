package storage_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/smartscholars/accounts/internal/model"
	"github.com/smartscholars/accounts/internal/storage"
	"github.com/smartscholars/accounts/internal/storage/memory"
)

type GuardSuite struct {
	suite.Suite
	store *memory.Storage
	guard *storage.Guard
	ctx   context.Context
}

func TestGuardSuite(t *testing.T) {
	suite.Run(t, new(GuardSuite))
}

func (s *GuardSuite) SetupTest() {
	s.store = memory.New()
	s.guard = storage.NewGuard(s.store, storage.GuardConfig{AcquireTimeout: 50 * time.Millisecond})
	s.ctx = context.Background()
}

func (s *GuardSuite) TestUpdateSavesResult() {
	err := s.guard.Update(s.ctx, func(accounts []model.Account) ([]model.Account, error) {
		return append(accounts, model.Account{Identity: "alice@example.com"}), nil
	})
	s.Require().NoError(err)
	s.Equal(1, s.store.Len())
}

func (s *GuardSuite) TestUpdateErrorSkipsSave() {
	boom := errors.New("boom")
	err := s.guard.Update(s.ctx, func(accounts []model.Account) ([]model.Account, error) {
		return append(accounts, model.Account{Identity: "alice@example.com"}), boom
	})
	s.ErrorIs(err, boom)
	s.Equal(0, s.store.Len())
}

func (s *GuardSuite) TestViewSeesSavedData() {
	_ = s.store.SaveAll(s.ctx, []model.Account{{Identity: "alice@example.com"}})

	var seen []model.Identity
	err := s.guard.View(s.ctx, func(accounts []model.Account) error {
		for _, a := range accounts {
			seen = append(seen, a.Identity)
		}
		return nil
	})
	s.Require().NoError(err)
	s.Equal([]model.Identity{"alice@example.com"}, seen)
}

func (s *GuardSuite) TestLoadFailurePropagates() {
	s.store.FailWith = fmt.Errorf("%w: disk gone", model.ErrStorageUnavailable)

	err := s.guard.View(s.ctx, func([]model.Account) error { return nil })
	s.ErrorIs(err, model.ErrStorageUnavailable)
}

func (s *GuardSuite) TestBusyWhenHeldPastTimeout() {
	held := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = s.guard.View(s.ctx, func([]model.Account) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := s.guard.View(s.ctx, func([]model.Account) error { return nil })
	close(release)

	s.ErrorIs(err, model.ErrStorageBusy)
}

func (s *GuardSuite) TestConcurrentUpdatesDoNotLoseWrites() {
	guard := storage.NewGuard(s.store, storage.DefaultGuardConfig())
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := guard.Update(s.ctx, func(accounts []model.Account) ([]model.Account, error) {
				id := model.Identity(fmt.Sprintf("user%d@example.com", i))
				return append(accounts, model.Account{Identity: id}), nil
			})
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	s.Equal(n, s.store.Len())
}

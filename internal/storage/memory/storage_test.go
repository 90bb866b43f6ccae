package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/smartscholars/accounts/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestLoadAllEmpty() {
	accounts, err := s.storage.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(accounts)
}

func (s *StorageSuite) TestSaveAndLoadAll() {
	accounts := []model.Account{
		{Identity: "alice@example.com", DisplayName: "Alice"},
		{Identity: "bob@example.com", DisplayName: "Bob", Premium: true},
	}

	err := s.storage.SaveAll(s.ctx, accounts)
	s.Require().NoError(err)

	loaded, err := s.storage.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(accounts, loaded)
}

func (s *StorageSuite) TestSaveAllReplacesCollection() {
	_ = s.storage.SaveAll(s.ctx, []model.Account{{Identity: "alice@example.com"}, {Identity: "bob@example.com"}})
	_ = s.storage.SaveAll(s.ctx, []model.Account{{Identity: "carol@example.com"}})

	loaded, err := s.storage.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(loaded, 1)
	s.Equal(model.Identity("carol@example.com"), loaded[0].Identity)
}

func (s *StorageSuite) TestLoadedCopyIsIsolated() {
	a := model.Account{Identity: "alice@example.com"}
	a.SetResetToken("tok", time.Now())
	_ = s.storage.SaveAll(s.ctx, []model.Account{a})

	loaded, _ := s.storage.LoadAll(s.ctx)
	*loaded[0].ResetToken = "mutated"
	loaded[0].DisplayName = "mutated"

	again, _ := s.storage.LoadAll(s.ctx)
	s.Equal("tok", *again[0].ResetToken)
	s.Empty(again[0].DisplayName)
}

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/smartscholars/accounts/internal/model"
	"github.com/smartscholars/accounts/internal/testutil"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestLoadAllEmpty() {
	accounts, err := s.storage.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(accounts)
}

func (s *StorageSuite) TestSaveAndLoadAll() {
	alice := model.Account{Identity: "alice@example.com", DisplayName: "Alice", PasswordHash: "h"}
	alice.SetResetToken("tok", time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC))
	bob := model.Account{Identity: "bob@example.com", DisplayName: "Bob", Premium: true}

	s.Require().NoError(s.storage.SaveAll(s.ctx, []model.Account{alice, bob}))

	loaded, err := s.storage.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(loaded, 2)
	s.Equal(alice.Identity, loaded[0].Identity)
	s.Equal("tok", *loaded[0].ResetToken)
	s.True(loaded[1].Premium)
}

func (s *StorageSuite) TestSaveAllReplacesList() {
	_ = s.storage.SaveAll(s.ctx, []model.Account{{Identity: "a@example.com"}, {Identity: "b@example.com"}})
	_ = s.storage.SaveAll(s.ctx, []model.Account{{Identity: "c@example.com"}})

	loaded, err := s.storage.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(loaded, 1)
	s.Equal(model.Identity("c@example.com"), loaded[0].Identity)
}

func (s *StorageSuite) TestSaveEmptyClearsList() {
	_ = s.storage.SaveAll(s.ctx, []model.Account{{Identity: "a@example.com"}})
	s.Require().NoError(s.storage.SaveAll(s.ctx, nil))

	s.False(s.mini.Exists(accountsKey(DefaultConfig().KeyPrefix)))
}

func (s *StorageSuite) TestMalformedEntriesAreSkipped() {
	key := accountsKey(DefaultConfig().KeyPrefix)
	_, _ = s.mini.Push(key,
		`{"email":"alice@example.com"}`,
		`garbage`,
		`{"full_name":"nobody"}`,
		`{"email":"bob@example.com"}`,
	)

	loaded, err := s.storage.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(loaded, 2)
	s.Equal(model.Identity("bob@example.com"), loaded[1].Identity)
}

func (s *StorageSuite) TestUnavailableWhenServerDown() {
	s.mini.Close()

	_, err := s.storage.LoadAll(s.ctx)
	s.ErrorIs(err, model.ErrStorageUnavailable)
}

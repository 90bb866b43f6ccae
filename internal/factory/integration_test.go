package factory

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/smartscholars/accounts/internal/model"
	redisstorage "github.com/smartscholars/accounts/internal/storage/redis"
	"github.com/smartscholars/accounts/internal/testutil"
)

const newPassword = "Wxyz789?"

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: register, log in, forget the password, reset it, log in again
func (s *IntegrationSuite) TestCompleteResetFlow() {
	s.app.MockRandom.QueueToken("session-1", "reset-1", "session-2")

	// Step 1: Register and log in
	_, err := s.app.SeedAccount("alice@example.com", "Alice")
	s.Require().NoError(err)
	account, err := s.app.CredentialService.Verify(s.ctx, "alice@example.com", TestPassword)
	s.Require().NoError(err)
	first, err := s.app.SessionService.Start(account)
	s.Require().NoError(err)
	s.Equal("session-1", first.Token)

	// Step 2: Request a reset; the link carries the token
	token, err := s.app.ResetService.Issue(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	sent, ok := s.app.MockDeliverer.Last()
	s.Require().True(ok)
	s.Equal("http://scholars.test/reset/"+token, sent.Link)

	// Step 3: Follow the link thirty minutes later
	s.app.MockClock.Advance(30 * time.Minute)
	handle, err := s.app.ResetService.Redeem(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(model.Identity("alice@example.com"), handle.Identity)

	// Step 4: Set the new password and drop existing sessions
	_, err = s.app.ResetService.Consume(s.ctx, token, newPassword, newPassword)
	s.Require().NoError(err)
	s.Equal(1, s.app.SessionService.EndAllFor(handle.Identity))

	_, err = s.app.SessionService.Validate(first.Token)
	s.ErrorIs(err, model.ErrInvalidSession)

	// Step 5: Only the new password works
	_, err = s.app.CredentialService.Verify(s.ctx, "alice@example.com", TestPassword)
	s.ErrorIs(err, model.ErrInvalidCredential)
	account, err = s.app.CredentialService.Verify(s.ctx, "alice@example.com", newPassword)
	s.Require().NoError(err)
	second, err := s.app.SessionService.Start(account)
	s.Require().NoError(err)
	s.Equal("session-2", second.Token)
}

// Test: premium upgrade survives a password change
func (s *IntegrationSuite) TestPremiumUpgradeAndPasswordChange() {
	_, err := s.app.SeedAccount("bob@example.com", "Bob")
	s.Require().NoError(err)

	upgraded, err := s.app.CredentialService.SetPremium(s.ctx, "bob@example.com", true)
	s.Require().NoError(err)
	s.True(upgraded.Premium)

	changed, err := s.app.CredentialService.ChangePassword(s.ctx, "bob@example.com", newPassword, newPassword)
	s.Require().NoError(err)
	s.True(changed.Premium)
	s.Equal("Bob", changed.DisplayName)
}

// Test: concurrent writers of different kinds do not lose each other's updates
func (s *IntegrationSuite) TestConcurrentMixedWriters() {
	const n = 10
	for i := range n {
		_, err := s.app.SeedAccount(model.Identity(fmt.Sprintf("user%d@example.com", i)), "User")
		s.Require().NoError(err)
	}

	var wg sync.WaitGroup
	for i := range n {
		identity := model.Identity(fmt.Sprintf("user%d@example.com", i))
		wg.Go(func() {
			_, err := s.app.CredentialService.SetPremium(s.ctx, identity, true)
			s.NoError(err)
		})
		wg.Go(func() {
			_, err := s.app.ResetService.Issue(s.ctx, identity)
			s.NoError(err)
		})
		wg.Go(func() {
			_, err := s.app.CredentialService.Register(s.ctx, identity+".new", "New", TestPassword, TestPassword)
			s.NoError(err)
		})
	}
	wg.Wait()

	accounts, err := s.app.Store.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Len(accounts, 2*n)
	for _, a := range accounts {
		if a.DisplayName == "User" {
			s.True(a.Premium, a.Identity)
			s.True(a.HasResetToken(), a.Identity)
		}
	}
}

// Factory construction tests

func TestNewFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	app, err := New(Config{StorageType: StorageTypeFile, AccountsFile: path, Logger: testutil.NopLogger()})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if _, err := app.CredentialService.Register(context.Background(), "alice@example.com", "Alice", TestPassword, TestPassword); err != nil {
		t.Fatal(err)
	}

	reopened, err := New(Config{StorageType: StorageTypeFile, AccountsFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reopened.CredentialService.Get(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("account not persisted: %v", err)
	}
}

func TestFileBackendSurvivesOversizedRegistration(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")
	app, err := New(Config{StorageType: StorageTypeFile, AccountsFile: path, Logger: testutil.NopLogger()})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if _, err := app.CredentialService.Register(ctx, "alice@example.com", "Alice", TestPassword, TestPassword); err != nil {
		t.Fatal(err)
	}
	_, err = app.CredentialService.Register(ctx, "mallory@example.com", strings.Repeat("x", 1<<20), TestPassword, TestPassword)
	if !errors.Is(err, model.ErrInvalidDisplayName) {
		t.Fatalf("expected ErrInvalidDisplayName, got %v", err)
	}

	if _, err := app.CredentialService.Verify(ctx, "alice@example.com", TestPassword); err != nil {
		t.Fatalf("store unusable after rejected registration: %v", err)
	}
	if _, err := app.CredentialService.Register(ctx, "bob@example.com", "Bob", TestPassword, TestPassword); err != nil {
		t.Fatal(err)
	}
}

func TestNewRedisBackend(t *testing.T) {
	mini := miniredis.RunT(t)
	cfg := redisstorage.DefaultConfig()
	cfg.URL = "redis://" + mini.Addr()

	app, err := New(Config{StorageType: StorageTypeRedis, RedisConfig: &cfg})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if _, err := app.CredentialService.Register(context.Background(), "alice@example.com", "Alice", TestPassword, TestPassword); err != nil {
		t.Fatal(err)
	}
	if !mini.Exists("scholars:accounts") {
		t.Fatal("expected accounts list in redis")
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(Config{StorageType: StorageTypeRedis}); err == nil {
		t.Fatal("expected error without RedisConfig")
	}
	if _, err := New(Config{StorageType: "sqlite"}); err == nil {
		t.Fatal("expected error for unknown storage type")
	}
}

package factory

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/smartscholars/accounts/internal/dependencies/mocks"
	"github.com/smartscholars/accounts/internal/model"
	"github.com/smartscholars/accounts/internal/services/reset"
	"github.com/smartscholars/accounts/internal/services/session"
	"github.com/smartscholars/accounts/internal/storage"
	"github.com/smartscholars/accounts/internal/storage/memory"
	"github.com/smartscholars/accounts/internal/testutil"
)

// TestPassword satisfies the password policy and is used for seeded accounts
const TestPassword = "Abcd123!"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MemoryStore   *memory.Storage
	MockClock     *mocks.MockClock
	MockRandom    *mocks.MockRandom
	MockDeliverer *mocks.MockDeliverer
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockDeliverer := mocks.NewMockDeliverer()

	app := newWithDependencies(dependencies{
		store:      store,
		guardCfg:   storage.DefaultGuardConfig(),
		clock:      mockClock,
		random:     mockRandom,
		hasher:     testutil.FastHasher(),
		deliverer:  mockDeliverer,
		resetCfg:   reset.Config{TokenTTL: time.Hour, PublicURL: "http://scholars.test"},
		sessionCfg: session.DefaultConfig(),
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})

	return &TestApp{
		App:           app,
		MemoryStore:   store,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
		MockDeliverer: mockDeliverer,
	}
}

// SeedAccount registers an account with TestPassword
func (t *TestApp) SeedAccount(identity model.Identity, displayName string) (*model.Account, error) {
	return t.CredentialService.Register(context.Background(), identity, displayName, TestPassword, TestPassword)
}

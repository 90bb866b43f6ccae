package testutil

import (
	"io"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/smartscholars/accounts/internal/password"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// FastHasher returns a bcrypt hasher at the minimum cost so tests stay quick
func FastHasher() *password.Bcrypt {
	return password.NewBcryptWithCost(bcrypt.MinCost)
}

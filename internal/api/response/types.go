package response

import (
	"time"

	"github.com/smartscholars/accounts/internal/model"
	"github.com/smartscholars/accounts/internal/services/reset"
	"github.com/smartscholars/accounts/internal/services/session"
)

// Account represents an account in API responses
type Account struct {
	Identity    string    `json:"identity"`
	DisplayName string    `json:"display_name"`
	Premium     bool      `json:"premium"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		Identity:    string(a.Identity),
		DisplayName: a.DisplayName,
		Premium:     a.Premium,
		CreatedAt:   a.CreatedAt,
	}
}

// AuthResponse is the response for the login endpoint
type AuthResponse struct {
	Account      Account   `json:"account"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from an account and its session
func AuthResponseFromSession(a *model.Account, s *session.Session) AuthResponse {
	return AuthResponse{
		Account:      AccountFromModel(a),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Message is a plain acknowledgement
type Message struct {
	Message string `json:"message"`
}

// ResetToken describes a live reset token without repeating it
type ResetToken struct {
	Identity  string    `json:"identity"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ResetTokenFromHandle converts a reset.Handle
func ResetTokenFromHandle(h *reset.Handle) ResetToken {
	return ResetToken{
		Identity:  string(h.Identity),
		ExpiresAt: h.ExpiresAt,
	}
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}

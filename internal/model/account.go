package model

import "time"

// Identity uniquely identifies an account (the email address). Matching is case-sensitive.
type Identity string

// Field limits enforced at registration. Identity follows the SMTP path limit.
const (
	MaxIdentityLength    = 254
	MaxDisplayNameLength = 100
)

// Account is the persisted record for a registered user
type Account struct {
	Identity         Identity   `json:"email"`
	DisplayName      string     `json:"full_name"`
	PasswordHash     string     `json:"password"` // bcrypt hash, never plaintext
	Premium          bool       `json:"premium"`
	ResetToken       *string    `json:"reset_token"`
	ResetTokenExpiry *time.Time `json:"reset_token_expiry"`
	CreatedAt        time.Time  `json:"created_at,omitzero"`
	UpdatedAt        time.Time  `json:"updated_at,omitzero"`
}

// HasResetToken reports whether a reset token is attached (live or not)
func (a *Account) HasResetToken() bool {
	return a.ResetToken != nil && a.ResetTokenExpiry != nil
}

// SetResetToken attaches a token, replacing any previous one
func (a *Account) SetResetToken(token string, expiry time.Time) {
	a.ResetToken = &token
	a.ResetTokenExpiry = &expiry
}

// ClearResetToken removes the token and its expiry together
func (a *Account) ClearResetToken() {
	a.ResetToken = nil
	a.ResetTokenExpiry = nil
}

// ResetTokenLive reports whether the attached token is still valid at now.
// A token expiring exactly at now is already expired.
func (a *Account) ResetTokenLive(now time.Time) bool {
	return a.HasResetToken() && now.Before(*a.ResetTokenExpiry)
}

// Consistent reports whether the token/expiry pair is either fully present or fully absent
func (a *Account) Consistent() bool {
	return (a.ResetToken == nil) == (a.ResetTokenExpiry == nil)
}

// Clone returns a deep copy so callers cannot alias stored pointers
func (a Account) Clone() Account {
	if a.ResetToken != nil {
		token := *a.ResetToken
		a.ResetToken = &token
	}
	if a.ResetTokenExpiry != nil {
		expiry := *a.ResetTokenExpiry
		a.ResetTokenExpiry = &expiry
	}
	return a
}

// Public returns a copy safe to hand outside the core: no hash, no token
func (a Account) Public() *Account {
	a.PasswordHash = ""
	a.ResetToken = nil
	a.ResetTokenExpiry = nil
	return &a
}

// CloneAccounts deep-copies a collection
func CloneAccounts(accounts []Account) []Account {
	out := make([]Account, len(accounts))
	for i, a := range accounts {
		out[i] = a.Clone()
	}
	return out
}

// FindAccount returns the index of the account with the given identity, or -1
func FindAccount(accounts []Account, identity Identity) int {
	for i := range accounts {
		if accounts[i].Identity == identity {
			return i
		}
	}
	return -1
}

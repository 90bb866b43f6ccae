package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenLiveBoundary(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	a := Account{Identity: "alice@example.com"}
	a.SetResetToken("tok", issued.Add(time.Hour))

	assert.True(t, a.ResetTokenLive(issued))
	assert.True(t, a.ResetTokenLive(issued.Add(time.Hour-time.Nanosecond)))
	assert.False(t, a.ResetTokenLive(issued.Add(time.Hour)))
	assert.False(t, a.ResetTokenLive(issued.Add(2*time.Hour)))
}

func TestClearResetTokenClearsBoth(t *testing.T) {
	a := Account{Identity: "alice@example.com"}
	a.SetResetToken("tok", time.Now())
	require.True(t, a.HasResetToken())

	a.ClearResetToken()
	assert.Nil(t, a.ResetToken)
	assert.Nil(t, a.ResetTokenExpiry)
	assert.True(t, a.Consistent())
}

func TestConsistentDetectsUnpairedToken(t *testing.T) {
	tok := "tok"
	a := Account{Identity: "alice@example.com", ResetToken: &tok}
	assert.False(t, a.Consistent())
}

func TestCloneDoesNotAlias(t *testing.T) {
	a := Account{Identity: "alice@example.com"}
	a.SetResetToken("tok", time.Now())

	c := a.Clone()
	*c.ResetToken = "changed"

	assert.Equal(t, "tok", *a.ResetToken)
}

func TestPublicStripsSecrets(t *testing.T) {
	a := Account{Identity: "alice@example.com", PasswordHash: "hash", Premium: true}
	a.SetResetToken("tok", time.Now())

	p := a.Public()
	assert.Empty(t, p.PasswordHash)
	assert.Nil(t, p.ResetToken)
	assert.Nil(t, p.ResetTokenExpiry)
	assert.True(t, p.Premium)
	assert.Equal(t, "hash", a.PasswordHash)
}

func TestFindAccount(t *testing.T) {
	accounts := []Account{{Identity: "a@example.com"}, {Identity: "b@example.com"}}
	assert.Equal(t, 1, FindAccount(accounts, "b@example.com"))
	assert.Equal(t, -1, FindAccount(accounts, "B@example.com"))
}

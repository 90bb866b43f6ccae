package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashIsNotPlaintextAndSalted(t *testing.T) {
	h := NewBcryptWithCost(bcrypt.MinCost)

	first, err := h.Hash("Abcd123!")
	require.NoError(t, err)
	second, err := h.Hash("Abcd123!")
	require.NoError(t, err)

	assert.NotEqual(t, "Abcd123!", first)
	assert.NotEqual(t, first, second)
}

func TestCompare(t *testing.T) {
	h := NewBcryptWithCost(bcrypt.MinCost)
	hash, err := h.Hash("Abcd123!")
	require.NoError(t, err)

	assert.NoError(t, h.Compare(hash, "Abcd123!"))
	assert.ErrorIs(t, h.Compare(hash, "Abcd123!x"), ErrMismatch)
	assert.ErrorIs(t, h.Compare("not-a-hash", "Abcd123!"), ErrMismatch)
}

func TestDefaultCost(t *testing.T) {
	hash, err := NewBcrypt().Hash("Abcd123!")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher derives and checks salted one-way password hashes
type Hasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash
	Compare(hash, password string) error
}

// ErrMismatch is returned by Compare when the password does not match
var ErrMismatch = errors.New("password does not match hash")

// Bcrypt implements Hasher with bcrypt. Each hash carries its own random salt.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns the production hasher at bcrypt.DefaultCost
func NewBcrypt() *Bcrypt {
	return &Bcrypt{cost: bcrypt.DefaultCost}
}

// NewBcryptWithCost returns a hasher at the given cost. Tests use bcrypt.MinCost.
func NewBcryptWithCost(cost int) *Bcrypt {
	return &Bcrypt{cost: cost}
}

// Ensure Bcrypt implements Hasher
var _ Hasher = (*Bcrypt)(nil)

func (b *Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Compare uses bcrypt's own verification, which compares in constant time
func (b *Bcrypt) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatch
	}
	return nil
}

package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Random produces unpredictable values for bearer credentials (reset tokens, session handles)
type Random interface {
	// Token returns n random bytes rendered as lowercase hex
	Token(n int) (string, error)
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Token reads n bytes from crypto/rand and hex-encodes them
func (r *CryptoRandom) Token(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Package password holds the password strength policy and the one-way hasher.
package password

import (
	"strings"
	"unicode"

	"github.com/smartscholars/accounts/internal/model"
)

const (
	// MinLength is the shortest accepted password
	MinLength = 8
	// MaxBytes is the bcrypt input limit; longer inputs would be silently truncated
	MaxBytes = 72
	// Symbols is the fixed set of accepted special characters
	Symbols = "@$!%*?&"
)

// Validate checks password strength: at least MinLength characters with an
// uppercase letter, a lowercase letter, a digit and one of Symbols.
func Validate(password string) error {
	if len([]rune(password)) < MinLength || len(password) > MaxBytes {
		return model.ErrWeakPassword
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(Symbols, r):
			symbol = true
		}
	}

	if !upper || !lower || !digit || !symbol {
		return model.ErrWeakPassword
	}
	return nil
}

// ValidatePair checks that confirm matches password and then applies Validate
func ValidatePair(password, confirm string) error {
	if password != confirm {
		return model.ErrPasswordMismatch
	}
	return Validate(password)
}

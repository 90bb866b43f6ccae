package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartscholars/accounts/internal/model"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"accepted minimal", "Abcd123!", nil},
		{"each symbol works", "Abcd123@", nil},
		{"ampersand", "Abcd123&", nil},
		{"no digit or symbol", "Abcdefg", model.ErrWeakPassword},
		{"too short", "Ab1!", model.ErrWeakPassword},
		{"seven chars", "Abc123!", model.ErrWeakPassword},
		{"no uppercase", "abcd123!", model.ErrWeakPassword},
		{"no lowercase", "ABCD123!", model.ErrWeakPassword},
		{"no digit", "Abcdefg!", model.ErrWeakPassword},
		{"no symbol", "Abcd1234", model.ErrWeakPassword},
		{"symbol outside set", "Abcd123#", model.ErrWeakPassword},
		{"empty", "", model.ErrWeakPassword},
		{"over bcrypt limit", "Aa1!" + strings.Repeat("x", 70), model.ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidatePairMismatchBeforeStrength(t *testing.T) {
	assert.ErrorIs(t, ValidatePair("weak", "other"), model.ErrPasswordMismatch)
	assert.ErrorIs(t, ValidatePair("weak", "weak"), model.ErrWeakPassword)
	assert.NoError(t, ValidatePair("Abcd123!", "Abcd123!"))
}

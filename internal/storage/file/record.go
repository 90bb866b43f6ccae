package file

import (
	"errors"
	"fmt"
	"time"

	"github.com/smartscholars/accounts/internal/model"
)

// legacyExpiryLayouts covers expiries written without a zone offset by older
// versions of the site. They were recorded in server local time, read here as UTC.
var legacyExpiryLayouts = []string{
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// record is the on-disk shape of one account line
type record struct {
	Email            string     `json:"email"`
	FullName         string     `json:"full_name"`
	Password         string     `json:"password"`
	Premium          bool       `json:"premium"`
	ResetToken       *string    `json:"reset_token"`
	ResetTokenExpiry *string    `json:"reset_token_expiry"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

var (
	errMissingIdentity = errors.New("missing email")
	errUnpairedToken   = errors.New("reset token and expiry must be set together")
)

func recordFromAccount(a model.Account) record {
	r := record{
		Email:      string(a.Identity),
		FullName:   a.DisplayName,
		Password:   a.PasswordHash,
		Premium:    a.Premium,
		ResetToken: a.ResetToken,
	}
	if a.ResetTokenExpiry != nil {
		expiry := a.ResetTokenExpiry.UTC().Format(time.RFC3339Nano)
		r.ResetTokenExpiry = &expiry
	}
	if !a.CreatedAt.IsZero() {
		created := a.CreatedAt
		r.CreatedAt = &created
	}
	if !a.UpdatedAt.IsZero() {
		updated := a.UpdatedAt
		r.UpdatedAt = &updated
	}
	return r
}

func (r record) toAccount() (model.Account, error) {
	if r.Email == "" {
		return model.Account{}, errMissingIdentity
	}

	a := model.Account{
		Identity:     model.Identity(r.Email),
		DisplayName:  r.FullName,
		PasswordHash: r.Password,
		Premium:      r.Premium,
		ResetToken:   r.ResetToken,
	}
	if r.CreatedAt != nil {
		a.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		a.UpdatedAt = *r.UpdatedAt
	}

	if r.ResetTokenExpiry != nil {
		expiry, err := parseExpiry(*r.ResetTokenExpiry)
		if err != nil {
			return model.Account{}, err
		}
		a.ResetTokenExpiry = &expiry
	}

	if !a.Consistent() {
		return model.Account{}, errUnpairedToken
	}
	return a, nil
}

func parseExpiry(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range legacyExpiryLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable reset_token_expiry")
}

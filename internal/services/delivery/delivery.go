// Package delivery sends password reset links out-of-band.
package delivery

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/smartscholars/accounts/internal/model"
)

// Deliverer sends a reset link to the account holder
type Deliverer interface {
	SendResetLink(ctx context.Context, recipient model.Identity, link string) error
}

// ResetLink builds the public reset URL for a token
func ResetLink(publicURL, token string) string {
	return fmt.Sprintf("%s/reset/%s", strings.TrimSuffix(publicURL, "/"), url.PathEscape(token))
}

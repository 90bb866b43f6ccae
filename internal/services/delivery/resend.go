package delivery

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/smartscholars/accounts/internal/model"
)

const resetSubject = "Password Reset Request - Smart Scholars"

// emailSender is the part of the Resend client used here
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendDeliverer emails reset links through Resend
type ResendDeliverer struct {
	emails    emailSender
	fromEmail string
	logger    *slog.Logger
}

// NewResendDeliverer creates a deliverer using the given API key
func NewResendDeliverer(apiKey, fromEmail string, logger *slog.Logger) *ResendDeliverer {
	client := resend.NewClient(apiKey)
	return newResendDeliverer(client.Emails, fromEmail, logger)
}

func newResendDeliverer(emails emailSender, fromEmail string, logger *slog.Logger) *ResendDeliverer {
	return &ResendDeliverer{
		emails:    emails,
		fromEmail: fromEmail,
		logger:    logger,
	}
}

// Ensure ResendDeliverer implements Deliverer
var _ Deliverer = (*ResendDeliverer)(nil)

func (d *ResendDeliverer) SendResetLink(ctx context.Context, recipient model.Identity, link string) error {
	params := &resend.SendEmailRequest{
		From:    d.fromEmail,
		To:      []string{string(recipient)},
		Subject: resetSubject,
		Html:    resetEmailHTML(link),
	}

	if _, err := d.emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	d.logger.InfoContext(ctx, "email sent", slog.String("type", "password_reset"), slog.String("to", string(recipient)))
	return nil
}

func resetEmailHTML(link string) string {
	escaped := html.EscapeString(link)
	return fmt.Sprintf(`<h2>Password Reset Request</h2>
<p>You requested a password reset for your Smart Scholars account.</p>
<p>Click the link below to reset your password:</p>
<a href="%s" style="display: inline-block; padding: 10px 20px; background-color: #007bff; color: #ffffff; text-decoration: none; border-radius: 5px;">Reset Password</a>
<p>This link will expire in 1 hour.</p>
<p>If you did not request a password reset, please ignore this email.</p>
`, escaped)
}

package delivery

import (
	"context"
	"log/slog"

	"github.com/smartscholars/accounts/internal/model"
)

// LogDeliverer is the development deliverer: it records that a link was sent
// without ever writing the link itself, which carries the token.
type LogDeliverer struct {
	logger *slog.Logger
}

// NewLogDeliverer creates a LogDeliverer
func NewLogDeliverer(logger *slog.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

// Ensure LogDeliverer implements Deliverer
var _ Deliverer = (*LogDeliverer)(nil)

func (d *LogDeliverer) SendResetLink(ctx context.Context, recipient model.Identity, _ string) error {
	d.logger.InfoContext(ctx, "reset link sent (dev mode)",
		slog.String("type", "password_reset"),
		slog.String("to", string(recipient)),
	)
	return nil
}

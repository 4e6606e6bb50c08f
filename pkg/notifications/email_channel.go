package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/markmed/fleetman/pkg/email"
	"github.com/markmed/fleetman/pkg/logger"
	"github.com/markmed/fleetman/pkg/ratelimit"
)

// EmailChannel sends an intent by email when the recipient allows it and
// the account is within its email budget.
type EmailChannel struct {
	directory RecipientDirectory
	limiter   ratelimit.Limiter
	sender    email.EmailSender
	renderer  Renderer
	logger    *slog.Logger
}

// EmailChannelOption configures an EmailChannel.
type EmailChannelOption func(*EmailChannel)

func WithEmailChannelLogger(l *slog.Logger) EmailChannelOption {
	return func(c *EmailChannel) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewEmailChannel requires every collaborator.
func NewEmailChannel(directory RecipientDirectory, limiter ratelimit.Limiter, sender email.EmailSender, renderer Renderer, opts ...EmailChannelOption) (*EmailChannel, error) {
	switch {
	case directory == nil:
		return nil, fmt.Errorf("%w: recipient directory is nil", ErrChannelMisconfigured)
	case limiter == nil:
		return nil, fmt.Errorf("%w: rate limiter is nil", ErrChannelMisconfigured)
	case sender == nil:
		return nil, fmt.Errorf("%w: email sender is nil", ErrChannelMisconfigured)
	case renderer == nil:
		return nil, fmt.Errorf("%w: renderer is nil", ErrChannelMisconfigured)
	}

	c := &EmailChannel{
		directory: directory,
		limiter:   limiter,
		sender:    sender,
		renderer:  renderer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Send looks up the recipient, checks the opt-out and the rate limit, then
// renders and sends. It returns ErrOptedOut, ErrNoDestination or
// ErrRateLimited when the email is skipped on purpose.
func (c *EmailChannel) Send(ctx context.Context, intent Intent) error {
	rcpt, err := c.directory.Lookup(ctx, intent.AccountID())
	if err != nil {
		return fmt.Errorf("lookup recipient: %w", err)
	}
	if !rcpt.OptedIn() {
		return ErrOptedOut
	}
	if rcpt.Email == "" {
		return ErrNoDestination
	}

	res, err := c.limiter.Allow(ctx, intent.AccountID())
	if err != nil {
		return fmt.Errorf("check email rate limit: %w", err)
	}
	if !res.Allowed {
		return fmt.Errorf("%w: retry at %s", ErrRateLimited, res.ResetAt.Format("15:04:05"))
	}

	msg, err := c.renderer.Render(ctx, rcpt, intent)
	if err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	if err := c.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   rcpt.Email,
		Subject:  msg.Subject,
		BodyHTML: msg.BodyHTML,
		Tag:      string(intent.SourceKind()),
	}); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	c.logger.DebugContext(ctx, "notification email sent",
		logger.AccountID(intent.AccountID()),
		logger.SourceKind(string(intent.SourceKind())),
		slog.Int("remaining", res.Remaining),
	)
	return nil
}

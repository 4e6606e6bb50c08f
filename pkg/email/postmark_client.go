package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

type postmarkClient struct {
	client *postmark.Client
	from   string
	reply  string
}

// NewPostmarkClient creates a Postmark-backed sender. Both tokens and both
// addresses are required.
func NewPostmarkClient(cfg Config) (EmailSender, error) {
	if err := cfg.validatePostmark(); err != nil {
		return nil, err
	}
	return &postmarkClient{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		from:   cfg.SenderEmail,
		reply:  cfg.SupportEmail,
	}, nil
}

func (c Config) validatePostmark() error {
	required := []struct{ name, value string }{
		{"POSTMARK_SERVER_TOKEN", c.PostmarkServerToken},
		{"POSTMARK_ACCOUNT_TOKEN", c.PostmarkAccountToken},
		{"SENDER_EMAIL", c.SenderEmail},
		{"SUPPORT_EMAIL", c.SupportEmail},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidConfig, f.name)
		}
	}
	for _, f := range required[2:] {
		if !IsValidAddress(f.value) {
			return fmt.Errorf("%w: %s is not a valid address", ErrInvalidConfig, f.name)
		}
	}
	return nil
}

// SendEmail implements EmailSender using Postmark's transactional API.
// Replies go to the support address.
func (c *postmarkClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	resp, err := c.client.SendEmail(ctx, postmark.Email{
		From:       c.from,
		ReplyTo:    c.reply,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	// Postmark reports rejected messages in the body with HTTP 200.
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}

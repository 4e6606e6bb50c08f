// Package email sends transactional email.
//
// EmailSender is the provider-agnostic interface. Two implementations exist:
// a Postmark client for real delivery and DevSender, which writes every
// message to a directory as an HTML file plus a JSON metadata file so
// messages can be inspected during development.
//
// NewFromConfig picks the implementation: Postmark when both tokens are set,
// DevSender otherwise.
//
//	sender, err := email.NewFromConfig(cfg)
//	if err != nil {
//		return err
//	}
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "owner@example.com",
//		Subject:  "Maintenance due",
//		BodyHTML: html,
//		Tag:      "maintenance",
//	})
//
// Every implementation validates SendEmailParams before sending and wraps
// provider failures in ErrFailedToSendEmail.
package email

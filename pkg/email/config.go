package email

// Config holds email service configuration.
// Postmark tokens are optional: without them NewFromConfig falls back to
// DevSender writing into DevDir.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"noreply@fleetman.local"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@fleetman.local"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"tmp/emails"`
}

// UsesPostmark reports whether both Postmark tokens are configured.
func (c Config) UsesPostmark() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}

// NewFromConfig returns a Postmark client when tokens are configured and a
// DevSender otherwise.
func NewFromConfig(cfg Config) (EmailSender, error) {
	if cfg.UsesPostmark() {
		return NewPostmarkClient(cfg)
	}
	return NewDevSender(cfg.DevDir), nil
}

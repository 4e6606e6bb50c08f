package notifications

import "errors"

var (
	ErrInvalidAccountID  = errors.New("notifications: invalid account id")
	ErrInvalidCategory   = errors.New("notifications: invalid category")
	ErrInvalidMessageKey = errors.New("notifications: invalid message key")
	ErrInvalidSourceKind = errors.New("notifications: invalid source kind")
	ErrInvalidMetadata   = errors.New("notifications: metadata values must be scalars")
	ErrInvalidActionURL  = errors.New("notifications: invalid action url")
	ErrInvalidIntent     = errors.New("notifications: intent was not built with NewIntent")

	ErrStorageRequired   = errors.New("notifications: storage is required")
	ErrEmitterRequired   = errors.New("notifications: emitter is required")
	ErrUnexpectedPayload = errors.New("notifications: unexpected event payload")
	ErrNotFound          = errors.New("notifications: notification not found")

	// Email channel outcomes. The first three are expected skips.
	ErrOptedOut             = errors.New("notifications: recipient opted out of email")
	ErrRateLimited          = errors.New("notifications: email rate limit reached")
	ErrNoDestination        = errors.New("notifications: recipient has no email address")
	ErrRecipientNotFound    = errors.New("notifications: recipient not found")
	ErrMissingTranslation   = errors.New("notifications: no translation for message key")
	ErrChannelMisconfigured = errors.New("notifications: email channel misconfigured")
)

// IsSkip reports whether err is an expected reason not to send an email.
func IsSkip(err error) bool {
	return errors.Is(err, ErrOptedOut) || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrNoDestination)
}

package push

import "errors"

var (
	ErrInvalidAccountID     = errors.New("push: invalid account id")
	ErrNilConnection        = errors.New("push: connection is nil")
	ErrRegistryClosed       = errors.New("push: registry closed")
	ErrConnectionClosed     = errors.New("push: connection closed")
	ErrStreamingUnsupported = errors.New("push: response writer does not support streaming")
	ErrUnauthorized         = errors.New("push: account could not be resolved")
)

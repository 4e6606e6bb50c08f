package push

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/markmed/fleetman/pkg/logger"
)

// AccountResolver identifies the account a stream request belongs to.
// Authentication happens upstream; the resolver only reads its result.
type AccountResolver func(r *http.Request) (string, error)

// HeaderResolver reads the account id from a request header set by the
// authenticating proxy in front of the service.
func HeaderResolver(name string) AccountResolver {
	return func(r *http.Request) (string, error) {
		id := r.Header.Get(name)
		if id == "" {
			return "", ErrInvalidAccountID
		}
		return id, nil
	}
}

type handlerConfig struct {
	writeTimeout time.Duration
	logger       *slog.Logger
}

// HandlerOption configures Handler.
type HandlerOption func(*handlerConfig)

// WithWriteTimeout bounds every frame written to the stream.
func WithWriteTimeout(d time.Duration) HandlerOption {
	return func(c *handlerConfig) { c.writeTimeout = d }
}

func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(c *handlerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Handler serves a server-sent events stream for the resolved account. The
// request stays open until the client disconnects or the registry drops the
// connection.
func Handler(reg *Registry, resolve AccountResolver, opts ...HandlerOption) http.Handler {
	cfg := &handlerConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accountID, err := resolve(r)
		if err != nil || accountID == "" {
			cfg.logger.DebugContext(ctx, "stream request rejected", logger.Error(errors.Join(ErrUnauthorized, err)))
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		conn, err := NewStreamConn(w, cfg.writeTimeout)
		if err != nil {
			cfg.logger.ErrorContext(ctx, "open stream", logger.AccountID(accountID), logger.Error(err))
			return
		}

		dc, err := reg.Subscribe(accountID, conn)
		if err != nil {
			cfg.logger.WarnContext(ctx, "subscribe stream", logger.AccountID(accountID), logger.Error(err))
			_ = conn.Close()
			return
		}

		select {
		case <-conn.Done():
		case <-ctx.Done():
			reg.Unsubscribe(accountID, dc)
		}
	})
}

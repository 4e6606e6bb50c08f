package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/markmed/fleetman/pkg/logger"
)

// DefaultKeepAliveInterval keeps idle streams open behind proxies that cut
// silent connections.
const DefaultKeepAliveInterval = 30 * time.Second

const keepAliveComment = "ping"

// Stats summarizes the registry for health reporting.
type Stats struct {
	ActiveAccounts           int `json:"activeAccounts"`
	TotalConnections         int `json:"totalConnections"`
	MaxConnectionsPerAccount int `json:"maxConnectionsPerAccount"`
}

// Registry maps accounts to their open device connections.
// All methods are safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	conns  map[string][]*DeviceConnection
	closed bool

	watchers sync.WaitGroup // one per subscribed connection

	logger            *slog.Logger
	now               func() time.Time
	newID             func() string
	keepAliveInterval time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides time.Now for OpenedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithKeepAliveInterval sets how often RunKeepAlive pings every connection.
func WithKeepAliveInterval(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.keepAliveInterval = d
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		conns:             make(map[string][]*DeviceConnection),
		logger:            slog.Default(),
		now:               time.Now,
		newID:             uuid.NewString,
		keepAliveInterval: DefaultKeepAliveInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logger.Component("push"))
	return r
}

// Subscribe registers conn for accountID. The connection is unsubscribed
// automatically once conn.Done is closed.
func (r *Registry) Subscribe(accountID string, conn Conn) (*DeviceConnection, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}
	if conn == nil {
		return nil, ErrNilConnection
	}

	dc := &DeviceConnection{
		ID:        r.newID(),
		AccountID: accountID,
		OpenedAt:  r.now(),
		conn:      conn,
		removed:   make(chan struct{}),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	r.conns[accountID] = append(r.conns[accountID], dc)
	r.watchers.Add(1)
	r.mu.Unlock()

	go r.watch(dc)

	r.logger.Debug("connection subscribed",
		logger.AccountID(accountID),
		logger.ConnectionID(dc.ID),
	)
	return dc, nil
}

func (r *Registry) watch(dc *DeviceConnection) {
	defer r.watchers.Done()
	select {
	case <-dc.conn.Done():
		r.Unsubscribe(dc.AccountID, dc)
	case <-dc.removed:
	}
}

// Unsubscribe removes dc from accountID and closes its connection. The
// account entry is deleted when its last connection goes. It reports whether
// dc was registered.
func (r *Registry) Unsubscribe(accountID string, dc *DeviceConnection) bool {
	if dc == nil {
		return false
	}

	r.mu.Lock()
	removed := r.remove(accountID, dc)
	r.mu.Unlock()

	if !removed {
		return false
	}

	dc.markRemoved()
	if err := dc.conn.Close(); err != nil {
		r.logger.Debug("close connection", logger.ConnectionID(dc.ID), logger.Error(err))
	}
	r.logger.Debug("connection unsubscribed",
		logger.AccountID(accountID),
		logger.ConnectionID(dc.ID),
	)
	return true
}

// remove must be called with r.mu held.
func (r *Registry) remove(accountID string, dc *DeviceConnection) bool {
	list := r.conns[accountID]
	for i, c := range list {
		if c != dc {
			continue
		}
		rest := make([]*DeviceConnection, 0, len(list)-1)
		rest = append(rest, list[:i]...)
		rest = append(rest, list[i+1:]...)
		if len(rest) == 0 {
			delete(r.conns, accountID)
		} else {
			r.conns[accountID] = rest
		}
		return true
	}
	return false
}

// Publish writes event as JSON to every connection of accountID and returns
// how many connections accepted it. Connections that fail the write are
// dropped. An account without connections is not an error.
func (r *Registry) Publish(ctx context.Context, accountID string, event any) int {
	targets := r.snapshot(accountID)
	if len(targets) == 0 {
		return 0
	}

	data, err := json.Marshal(event)
	if err != nil {
		r.logger.ErrorContext(ctx, "marshal push event", logger.AccountID(accountID), logger.Error(err))
		return 0
	}

	delivered := 0
	for _, dc := range targets {
		if err := dc.conn.WriteEvent(data); err != nil {
			r.drop(ctx, dc, "publish", err)
			continue
		}
		delivered++
	}
	return delivered
}

// SendKeepAlive writes a comment frame to every connection of accountID.
func (r *Registry) SendKeepAlive(accountID string) int {
	return r.ping(r.snapshot(accountID))
}

// SendKeepAliveToAll writes a comment frame to every open connection.
func (r *Registry) SendKeepAliveToAll() int {
	r.mu.Lock()
	targets := make([]*DeviceConnection, 0, len(r.conns))
	for _, list := range r.conns {
		targets = append(targets, list...)
	}
	r.mu.Unlock()

	return r.ping(targets)
}

func (r *Registry) ping(targets []*DeviceConnection) int {
	ok := 0
	for _, dc := range targets {
		if err := dc.conn.WriteComment(keepAliveComment); err != nil {
			r.drop(context.Background(), dc, "keep-alive", err)
			continue
		}
		ok++
	}
	return ok
}

// RunKeepAlive pings every connection on the configured interval until ctx
// is done.
func (r *Registry) RunKeepAlive(ctx context.Context) error {
	ticker := time.NewTicker(r.keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.SendKeepAliveToAll()
		}
	}
}

// Stats returns connection counts.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{ActiveAccounts: len(r.conns)}
	for _, list := range r.conns {
		s.TotalConnections += len(list)
		s.MaxConnectionsPerAccount = max(s.MaxConnectionsPerAccount, len(list))
	}
	return s
}

// Connections returns the open connections of accountID in subscribe order.
func (r *Registry) Connections(accountID string) []*DeviceConnection {
	return r.snapshot(accountID)
}

// Close closes every connection and refuses new subscriptions.
// It is safe to call Close multiple times.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	all := r.conns
	r.conns = make(map[string][]*DeviceConnection)
	r.mu.Unlock()

	for _, list := range all {
		for _, dc := range list {
			dc.markRemoved()
			_ = dc.conn.Close()
		}
	}

	r.watchers.Wait()
	return nil
}

func (r *Registry) snapshot(accountID string) []*DeviceConnection {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.conns[accountID]
	if len(list) == 0 {
		return nil
	}
	out := make([]*DeviceConnection, len(list))
	copy(out, list)
	return out
}

func (r *Registry) drop(ctx context.Context, dc *DeviceConnection, op string, err error) {
	r.logger.WarnContext(ctx, "dropping connection after failed write",
		slog.String("op", op),
		logger.AccountID(dc.AccountID),
		logger.ConnectionID(dc.ID),
		logger.Error(err),
	)
	r.Unsubscribe(dc.AccountID, dc)
}

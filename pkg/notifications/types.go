package notifications

import (
	"fmt"
	"maps"
	"net/url"
	"strings"
	"time"
)

// Category is the visual severity of a notification.
type Category string

const (
	CategorySuccess    Category = "success"
	CategoryWarning    Category = "warning"
	CategoryError      Category = "error"
	CategoryInfo       Category = "info"
	CategoryNewMessage Category = "new-message"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategorySuccess, CategoryWarning, CategoryError, CategoryInfo, CategoryNewMessage:
		return true
	}
	return false
}

// Color is the accent color used when rendering c.
func (c Category) Color() string {
	switch c {
	case CategorySuccess:
		return "#16a34a"
	case CategoryWarning:
		return "#d97706"
	case CategoryError:
		return "#dc2626"
	case CategoryInfo:
		return "#2563eb"
	case CategoryNewMessage:
		return "#7c3aed"
	}
	return "#6b7280"
}

// SourceKind names the feature an intent comes from. It decides whether the
// notification is stored.
type SourceKind string

const (
	SourceSystem       SourceKind = "system"
	SourceMaintenance  SourceKind = "maintenance"
	SourceQuickCheck   SourceKind = "quick-check"
	SourceMachineEvent SourceKind = "machine-event"
	SourceContact      SourceKind = "contact"
	// SourceMessaging content is already stored by the messaging feature.
	SourceMessaging SourceKind = "messaging"
)

// Persistence tells Fanout whether to store a notification.
type Persistence int

const (
	PersistenceUnknown Persistence = iota
	Persisted
	Ephemeral
)

func (p Persistence) String() string {
	switch p {
	case Persisted:
		return "persisted"
	case Ephemeral:
		return "ephemeral"
	}
	return "unknown"
}

// Persistence classifies k. Unknown kinds map to PersistenceUnknown.
func (k SourceKind) Persistence() Persistence {
	switch k {
	case SourceSystem, SourceMaintenance, SourceQuickCheck, SourceMachineEvent, SourceContact:
		return Persisted
	case SourceMessaging:
		return Ephemeral
	}
	return PersistenceUnknown
}

// Valid reports whether k is a known source kind.
func (k SourceKind) Valid() bool {
	return k.Persistence() != PersistenceUnknown
}

// IntentParams are the inputs of NewIntent.
type IntentParams struct {
	AccountID  string
	Category   Category
	MessageKey string
	ActionURL  string
	SourceKind SourceKind
	Metadata   map[string]any
}

// Intent is a validated request to notify one account. Its fields cannot be
// changed after NewIntent; Metadata returns a copy.
type Intent struct {
	accountID  string
	category   Category
	messageKey string
	actionURL  string
	sourceKind SourceKind
	metadata   map[string]any
}

// NewIntent validates p and returns an Intent. Metadata values must be
// strings, booleans or numbers.
func NewIntent(p IntentParams) (Intent, error) {
	accountID := strings.TrimSpace(p.AccountID)
	if accountID == "" {
		return Intent{}, ErrInvalidAccountID
	}
	if !p.Category.Valid() {
		return Intent{}, fmt.Errorf("%w: %q", ErrInvalidCategory, p.Category)
	}
	messageKey := strings.TrimSpace(p.MessageKey)
	if messageKey == "" {
		return Intent{}, ErrInvalidMessageKey
	}
	if !p.SourceKind.Valid() {
		return Intent{}, fmt.Errorf("%w: %q", ErrInvalidSourceKind, p.SourceKind)
	}
	if p.ActionURL != "" {
		if _, err := url.Parse(p.ActionURL); err != nil {
			return Intent{}, fmt.Errorf("%w: %w", ErrInvalidActionURL, err)
		}
	}
	for k, v := range p.Metadata {
		if !isScalar(v) {
			return Intent{}, fmt.Errorf("%w: %q is %T", ErrInvalidMetadata, k, v)
		}
	}

	return Intent{
		accountID:  accountID,
		category:   p.Category,
		messageKey: messageKey,
		actionURL:  p.ActionURL,
		sourceKind: p.SourceKind,
		metadata:   copyMetadata(p.Metadata),
	}, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

func copyMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	maps.Copy(out, m)
	return out
}

func (i Intent) AccountID() string      { return i.accountID }
func (i Intent) Category() Category     { return i.category }
func (i Intent) MessageKey() string     { return i.messageKey }
func (i Intent) ActionURL() string      { return i.actionURL }
func (i Intent) SourceKind() SourceKind { return i.sourceKind }

// Metadata returns a copy of the intent's metadata.
func (i Intent) Metadata() map[string]any { return copyMetadata(i.metadata) }

// Valid reports whether i was built by NewIntent.
func (i Intent) Valid() bool {
	return i.accountID != "" && i.sourceKind.Valid()
}

// Params returns metadata formatted for message templates.
func (i Intent) Params() map[string]string {
	out := make(map[string]string, len(i.metadata))
	for k, v := range i.metadata {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// Record returns what Storage persists for i.
func (i Intent) Record(createdAt time.Time) Record {
	return Record{
		Category:   i.category,
		MessageKey: i.messageKey,
		ActionURL:  i.actionURL,
		SourceKind: i.sourceKind,
		Metadata:   copyMetadata(i.metadata),
		CreatedAt:  createdAt,
	}
}

// Record is a notification as handed to Storage.
type Record struct {
	Category   Category
	MessageKey string
	ActionURL  string
	SourceKind SourceKind
	Metadata   map[string]any
	CreatedAt  time.Time
}

// EphemeralID is the Event id of notifications that were not stored.
const EphemeralID = "ephemeral"

// Event is the payload of dispatcher.TopicNotificationCreated and the JSON
// sent to streaming clients.
type Event struct {
	ID         string         `json:"id"`
	AccountID  string         `json:"accountId"`
	Category   Category       `json:"category"`
	MessageKey string         `json:"messageKey"`
	ActionURL  string         `json:"actionUrl,omitempty"`
	SourceKind SourceKind     `json:"sourceKind"`
	Metadata   map[string]any `json:"metadata"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NewEvent builds the wire event for i.
func NewEvent(id string, i Intent, at time.Time) Event {
	return Event{
		ID:         id,
		AccountID:  i.accountID,
		Category:   i.category,
		MessageKey: i.messageKey,
		ActionURL:  i.actionURL,
		SourceKind: i.sourceKind,
		Metadata:   copyMetadata(i.metadata),
		Timestamp:  at,
	}
}

// Persisted reports whether the event refers to a stored notification.
func (e Event) Persisted() bool {
	return e.ID != EphemeralID
}

package notifications

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Storage persists notifications and returns the stored id.
type Storage interface {
	Save(ctx context.Context, accountID string, rec Record) (string, error)
}

// Stored is a persisted notification.
type Stored struct {
	ID        string
	AccountID string
	Record
}

// MemoryStorage keeps notifications in process memory. Suitable for
// development and tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string][]Stored // accountID -> newest last
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string][]Stored)}
}

// Save implements Storage.
func (s *MemoryStorage) Save(ctx context.Context, accountID string, rec Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if accountID == "" {
		return "", ErrInvalidAccountID
	}

	rec.Metadata = copyMetadata(rec.Metadata)
	stored := Stored{ID: uuid.NewString(), AccountID: accountID, Record: rec}

	s.mu.Lock()
	s.items[accountID] = append(s.items[accountID], stored)
	s.mu.Unlock()

	return stored.ID, nil
}

// List returns the notifications of accountID, newest first.
func (s *MemoryStorage) List(accountID string) []Stored {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.items[accountID])
	slices.Reverse(out)
	return out
}

// Get returns one notification.
func (s *MemoryStorage) Get(accountID, id string) (Stored, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.items[accountID] {
		if n.ID == id {
			return n, nil
		}
	}
	return Stored{}, ErrNotFound
}

// Count returns the number of stored notifications across all accounts.
func (s *MemoryStorage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, list := range s.items {
		n += len(list)
	}
	return n
}

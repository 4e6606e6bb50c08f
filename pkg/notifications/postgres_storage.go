package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool used by PostgresStorage.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const insertNotification = `INSERT INTO notifications
	(id, account_id, category, message_key, action_url, source_kind, metadata, created_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)`

// PostgresStorage stores notifications in the notifications table created
// by the migrations in internal/db/migrations.
type PostgresStorage struct {
	db DBTX
}

var _ Storage = (*PostgresStorage)(nil)

func NewPostgresStorage(db DBTX) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// Save implements Storage.
func (s *PostgresStorage) Save(ctx context.Context, accountID string, rec Record) (string, error) {
	if accountID == "" {
		return "", ErrInvalidAccountID
	}

	metadata := rec.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("marshal notification metadata: %w", err)
	}

	id := uuid.New()
	tag, err := s.db.Exec(ctx, insertNotification,
		id, accountID, string(rec.Category), rec.MessageKey, rec.ActionURL,
		string(rec.SourceKind), raw, rec.CreatedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert notification: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return "", fmt.Errorf("insert notification: %d rows affected", tag.RowsAffected())
	}
	return id.String(), nil
}

package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultMongoCollection holds notification documents.
const DefaultMongoCollection = "notifications"

type notificationDoc struct {
	ID         string         `bson:"_id"`
	AccountID  string         `bson:"account_id"`
	Category   string         `bson:"category"`
	MessageKey string         `bson:"message_key"`
	ActionURL  string         `bson:"action_url,omitempty"`
	SourceKind string         `bson:"source_kind"`
	Metadata   map[string]any `bson:"metadata"`
	Read       bool           `bson:"read"`
	CreatedAt  time.Time      `bson:"created_at"`
}

// MongoStorage stores notifications in a MongoDB collection.
type MongoStorage struct {
	coll *mongo.Collection
}

var _ Storage = (*MongoStorage)(nil)

// NewMongoStorage uses db.Collection(DefaultMongoCollection).
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{coll: db.Collection(DefaultMongoCollection)}
}

// EnsureIndexes creates the index used to list an account's notifications.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("account_created"),
	})
	if err != nil {
		return fmt.Errorf("create notification index: %w", err)
	}
	return nil
}

// Save implements Storage.
func (s *MongoStorage) Save(ctx context.Context, accountID string, rec Record) (string, error) {
	if accountID == "" {
		return "", ErrInvalidAccountID
	}

	doc := notificationDoc{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		Category:   string(rec.Category),
		MessageKey: rec.MessageKey,
		ActionURL:  rec.ActionURL,
		SourceKind: string(rec.SourceKind),
		Metadata:   copyMetadata(rec.Metadata),
		CreatedAt:  rec.CreatedAt.UTC(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert notification: %w", err)
	}
	return doc.ID, nil
}

// Get loads one notification of accountID.
func (s *MongoStorage) Get(ctx context.Context, accountID, id string) (Stored, error) {
	var doc notificationDoc
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "account_id", Value: accountID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Stored{}, ErrNotFound
	}
	if err != nil {
		return Stored{}, fmt.Errorf("find notification: %w", err)
	}

	return Stored{
		ID:        doc.ID,
		AccountID: doc.AccountID,
		Record: Record{
			Category:   Category(doc.Category),
			MessageKey: doc.MessageKey,
			ActionURL:  doc.ActionURL,
			SourceKind: SourceKind(doc.SourceKind),
			Metadata:   doc.Metadata,
			CreatedAt:  doc.CreatedAt,
		},
	}, nil
}

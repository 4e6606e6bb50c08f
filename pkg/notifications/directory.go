package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Recipient is what the email channel needs to know about an account.
type Recipient struct {
	AccountID string
	Email     string
	Name      string
	Language  string
	// EmailOptIn is nil when the account never chose; that counts as opted in.
	EmailOptIn *bool
}

// OptedIn reports whether the recipient accepts notification emails.
func (r Recipient) OptedIn() bool {
	return r.EmailOptIn == nil || *r.EmailOptIn
}

// RecipientDirectory resolves an account to its email preferences.
type RecipientDirectory interface {
	Lookup(ctx context.Context, accountID string) (Recipient, error)
}

// StaticDirectory is an in-memory RecipientDirectory.
type StaticDirectory struct {
	mu         sync.RWMutex
	recipients map[string]Recipient
}

var _ RecipientDirectory = (*StaticDirectory)(nil)

func NewStaticDirectory(recipients ...Recipient) *StaticDirectory {
	d := &StaticDirectory{recipients: make(map[string]Recipient, len(recipients))}
	for _, r := range recipients {
		d.recipients[r.AccountID] = r
	}
	return d
}

// Put adds or replaces a recipient.
func (d *StaticDirectory) Put(r Recipient) {
	d.mu.Lock()
	d.recipients[r.AccountID] = r
	d.mu.Unlock()
}

// Lookup implements RecipientDirectory.
func (d *StaticDirectory) Lookup(_ context.Context, accountID string) (Recipient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	r, ok := d.recipients[accountID]
	if !ok {
		return Recipient{}, fmt.Errorf("%w: %s", ErrRecipientNotFound, accountID)
	}
	return r, nil
}

// DefaultAccountsCollection holds account documents.
const DefaultAccountsCollection = "accounts"

type accountDoc struct {
	ID       string `bson:"_id"`
	Email    string `bson:"email"`
	Name     string `bson:"name"`
	Language string `bson:"language"`
	Prefs    struct {
		Email *bool `bson:"email"`
	} `bson:"notification_preferences"`
}

// MongoDirectory reads recipients from the accounts collection.
type MongoDirectory struct {
	coll *mongo.Collection
}

var _ RecipientDirectory = (*MongoDirectory)(nil)

func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{coll: db.Collection(DefaultAccountsCollection)}
}

// Lookup implements RecipientDirectory.
func (d *MongoDirectory) Lookup(ctx context.Context, accountID string) (Recipient, error) {
	var doc accountDoc
	err := d.coll.FindOne(ctx, bson.D{{Key: "_id", Value: accountID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Recipient{}, fmt.Errorf("%w: %s", ErrRecipientNotFound, accountID)
	}
	if err != nil {
		return Recipient{}, fmt.Errorf("find account: %w", err)
	}

	return Recipient{
		AccountID:  doc.ID,
		Email:      doc.Email,
		Name:       doc.Name,
		Language:   doc.Language,
		EmailOptIn: doc.Prefs.Email,
	}, nil
}

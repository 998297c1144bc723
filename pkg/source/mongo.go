package source

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	fterrors "github.com/deepgen/famtree/pkg/errors"
	"github.com/deepgen/famtree/pkg/person"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "famtree"
	DefaultMongoCollection = "people"
	mongoConnectTimeout    = 10 * time.Second
)

// MongoOptions configures [NewMongo].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	// SessionID selects whose people are loaded. Every document carries a
	// session_id field next to the person fields.
	SessionID string
}

// Mongo loads one session's person list from a MongoDB collection, in
// insertion order.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
	sessionID  string
}

// personDoc is the stored form of a person.
type personDoc struct {
	SessionID     string `bson:"session_id"`
	person.Record `bson:",inline"`
}

// NewMongo connects to MongoDB and verifies the connection.
func NewMongo(ctx context.Context, opts MongoOptions) (*Mongo, error) {
	if opts.URI == "" {
		return nil, fterrors.New(fterrors.ErrCodeInvalidInput, "mongo uri is required")
	}
	if opts.SessionID == "" {
		return nil, fterrors.New(fterrors.ErrCodeInvalidInput, "mongo session id is required")
	}
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(mongoConnectTimeout).
		SetServerSelectionTimeout(mongoConnectTimeout))
	if err != nil {
		return nil, fterrors.Wrap(fterrors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fterrors.Wrap(fterrors.ErrCodeNetwork, err, "ping mongo")
	}

	return &Mongo{
		client:     client,
		collection: client.Database(opts.Database).Collection(opts.Collection),
		sessionID:  opts.SessionID,
	}, nil
}

// Load returns every person of the session.
func (m *Mongo) Load(ctx context.Context) ([]person.Record, error) {
	cur, err := m.collection.Find(ctx,
		bson.M{"session_id": m.sessionID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fterrors.Wrap(fterrors.ErrCodeNetwork, err, "query people")
	}

	var docs []personDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fterrors.Wrap(fterrors.ErrCodeNetwork, err, "read people")
	}

	persons := make([]person.Record, len(docs))
	for i := range docs {
		persons[i] = docs[i].Record
	}
	if err := person.Validate(persons); err != nil {
		return nil, err
	}
	person.Normalize(persons)
	return persons, nil
}

// Save replaces the session's people. The delete and the insert are separate
// operations; a reader in between sees an empty list, which the engine
// reports as "no data".
func (m *Mongo) Save(ctx context.Context, persons []person.Record) error {
	if err := person.Validate(persons); err != nil {
		return err
	}
	if _, err := m.collection.DeleteMany(ctx, bson.M{"session_id": m.sessionID}); err != nil {
		return fterrors.Wrap(fterrors.ErrCodeNetwork, err, "clear people")
	}
	if len(persons) == 0 {
		return nil
	}

	docs := make([]any, len(persons))
	for i := range persons {
		docs[i] = personDoc{SessionID: m.sessionID, Record: persons[i]}
	}
	if _, err := m.collection.InsertMany(ctx, docs); err != nil {
		return fterrors.Wrap(fterrors.ErrCodeNetwork, err, "insert people")
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

var (
	_ Source = (*Mongo)(nil)
	_ Saver  = (*Mongo)(nil)
)

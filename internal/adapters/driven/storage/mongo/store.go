// Package mongo provides the MongoDB document store used in production runs.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
)

// DefaultTimeout bounds each MongoDB operation.
const DefaultTimeout = 30 * time.Second

// Verify interface compliance.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a MongoDB-backed document store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to uri and selects database.
// The connection is verified with a ping before returning.
func NewStore(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("%w: mongodb connection string is empty", domain.ErrStore)
	}
	if database == "" {
		return nil, fmt.Errorf("%w: mongodb database name is empty", domain.ErrStore)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", domain.ErrStore, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping: %w", domain.ErrStore, err)
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

// ListCollectionNames returns the collections of the database.
func (s *Store) ListCollectionNames(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%w: list collections: %w", domain.ErrStore, err)
	}
	return names, nil
}

// Drop removes a collection.
func (s *Store) Drop(ctx context.Context, collection string) error {
	if err := s.db.Collection(collection).Drop(ctx); err != nil {
		return fmt.Errorf("%w: drop %s: %w", domain.ErrStore, collection, err)
	}
	return nil
}

// InsertMany inserts docs in one ordered batch.
func (s *Store) InsertMany(ctx context.Context, collection string, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	batch := make([]any, 0, len(docs))
	for _, doc := range docs {
		d, err := ToBSON(doc)
		if err != nil {
			return err
		}
		batch = append(batch, d)
	}
	if _, err := s.db.Collection(collection).InsertMany(ctx, batch); err != nil {
		return fmt.Errorf("%w: insert into %s: %w", domain.ErrStore, collection, err)
	}
	return nil
}

// Upsert runs findOneAndUpdate({url}, {$set: doc}, upsert).
func (s *Store) Upsert(ctx context.Context, collection string, doc domain.Document) error {
	if !doc.HasKey() {
		return domain.ErrMissingKey
	}
	set, err := ToBSON(doc)
	if err != nil {
		return err
	}

	filter := bson.D{{Key: domain.KeyField, Value: doc.URL}}
	update := bson.D{{Key: "$set", Value: set}}
	opts := options.FindOneAndUpdate().SetUpsert(true)

	res := s.db.Collection(collection).FindOneAndUpdate(ctx, filter, update, opts)
	// An upsert that inserts returns no pre-image.
	if err := res.Err(); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: upsert %s: %w", domain.ErrStore, doc.URL, err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// ToBSON converts a JSON document to an ordered BSON document.
func ToBSON(doc domain.Document) (bson.D, error) {
	var d bson.D
	if err := bson.UnmarshalExtJSON(doc.Raw, false, &d); err != nil {
		return nil, fmt.Errorf("%w: convert %s to bson: %w", domain.ErrStore, doc.URL, err)
	}
	return d, nil
}

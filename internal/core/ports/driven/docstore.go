package driven

import (
	"context"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
)

// DocumentStore is the document database documents are reconciled into.
// Backed by MongoDB in production and SQLite for local runs.
type DocumentStore interface {
	// ListCollectionNames returns the names of existing collections.
	ListCollectionNames(ctx context.Context) ([]string, error)

	// Drop removes a collection. Dropping a missing collection is not an error.
	Drop(ctx context.Context, collection string) error

	// InsertMany appends a batch of documents without deduplication.
	InsertMany(ctx context.Context, collection string, docs []domain.Document) error

	// Upsert finds the document with the same url and sets every field of doc
	// on it, inserting it when no document matches.
	Upsert(ctx context.Context, collection string, doc domain.Document) error

	// Close releases the connection.
	Close() error
}

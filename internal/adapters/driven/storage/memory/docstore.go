package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Failures can be injected per document url for tests.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string][]domain.Document
	failures    map[string]error
	listErr     error
	dropErr     error
	closed      bool
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string][]domain.Document),
		failures:    make(map[string]error),
	}
}

// FailOn makes writes of the document with url fail with err.
func (s *DocumentStore) FailOn(url string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[url] = err
}

// FailList makes ListCollectionNames fail with err.
func (s *DocumentStore) FailList(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
}

// FailDrop makes Drop fail with err.
func (s *DocumentStore) FailDrop(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropErr = err
}

// ListCollectionNames returns existing collections in name order.
func (s *DocumentStore) ListCollectionNames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Drop removes a collection.
func (s *DocumentStore) Drop(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dropErr != nil {
		return s.dropErr
	}
	delete(s.collections, collection)
	return nil
}

// InsertMany appends docs to the collection.
// A document with an injected failure fails the whole batch, like an ordered insert.
func (s *DocumentStore) InsertMany(_ context.Context, collection string, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		if err := s.failures[doc.URL]; err != nil {
			return fmt.Errorf("insert %s: %w", doc.URL, err)
		}
	}
	s.collections[collection] = append(s.collections[collection], docs...)
	return nil
}

// Upsert sets every field of doc on the first document with the same url.
func (s *DocumentStore) Upsert(_ context.Context, collection string, doc domain.Document) error {
	if !doc.HasKey() {
		return domain.ErrMissingKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures[doc.URL]; err != nil {
		return fmt.Errorf("upsert %s: %w", doc.URL, err)
	}

	docs := s.collections[collection]
	idx := slices.IndexFunc(docs, func(d domain.Document) bool { return d.URL == doc.URL })
	if idx < 0 {
		s.collections[collection] = append(docs, doc)
		return nil
	}
	merged, err := docs[idx].Merge(doc)
	if err != nil {
		return err
	}
	docs[idx] = merged
	return nil
}

// Find returns a copy of the documents in a collection, in insertion order.
func (s *DocumentStore) Find(_ context.Context, collection string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.collections[collection]), nil
}

// Close marks the store closed.
func (s *DocumentStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *DocumentStore) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

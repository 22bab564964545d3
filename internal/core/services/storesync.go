package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ghpipe/internal/logger"
)

// StoreSync reconciles the document store with the snapshots on disk.
type StoreSync struct {
	snapshots driven.SnapshotStore
	store     driven.DocumentStore
}

// NewStoreSync creates a store sync.
func NewStoreSync(snapshots driven.SnapshotStore, store driven.DocumentStore) *StoreSync {
	return &StoreSync{snapshots: snapshots, store: store}
}

// Sync loads every snapshot of the category into its collection.
// A missing collection is created by bulk insert; an existing one is
// updated by upserting each document on its url. Individual write
// failures are logged and counted, never fatal.
func (s *StoreSync) Sync(ctx context.Context, category domain.Category) (*domain.SyncReport, error) {
	report := &domain.SyncReport{Category: category}

	set, err := s.snapshots.Load(category)
	if err != nil {
		return report, err
	}
	report.Files = len(set.Files)
	report.Skipped = set.Skipped
	report.Loaded = set.Count()

	collection := category.Collection()
	names, err := s.store.ListCollectionNames(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: list collections: %w", domain.ErrStore, err)
	}

	if slices.Contains(names, collection) {
		report.Path = domain.SyncPathUpdate
		s.update(ctx, collection, set, report)
	} else {
		report.Path = domain.SyncPathCreate
		s.create(ctx, collection, set, report)
	}

	logger.Info("%s: %d loaded, %d written, %d failed (%s path)",
		collection, report.Loaded, report.Written, report.Failed, report.Path)
	return report, nil
}

func (s *StoreSync) create(ctx context.Context, collection string, set *domain.SnapshotSet, report *domain.SyncReport) {
	logger.Info("dropping collection %s", collection)
	if err := s.store.Drop(ctx, collection); err != nil {
		logger.Warn("drop %s: %v", collection, err)
	}

	for i, batch := range set.Batches {
		if len(batch) == 0 {
			continue
		}
		if err := s.store.InsertMany(ctx, collection, batch); err != nil {
			logger.Warn("insert %s into %s: %v", set.Files[i], collection, err)
			report.Failed += len(batch)
			continue
		}
		report.Written += len(batch)
	}
}

func (s *StoreSync) update(ctx context.Context, collection string, set *domain.SnapshotSet, report *domain.SyncReport) {
	for _, doc := range set.Documents() {
		if !doc.HasKey() {
			logger.Warn("skipping document without %s in %s", domain.KeyField, collection)
			report.Failed++
			continue
		}
		if err := s.store.Upsert(ctx, collection, doc); err != nil {
			logger.Warn("upsert %s: %v", doc.URL, err)
			report.Failed++
			continue
		}
		report.Written++
	}
}

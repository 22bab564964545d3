package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ghpipe/internal/logger"
)

// Ensure PipelineOrchestrator implements the interface.
var _ driving.Pipeline = (*PipelineOrchestrator)(nil)

// PipelineOrchestrator sequences collection, archiving and store sync.
type PipelineOrchestrator struct {
	collector *Collector
	archives  *ArchiveManager
	sync      *StoreSync
	snapshots driven.SnapshotStore
}

// NewPipelineOrchestrator creates a pipeline orchestrator.
func NewPipelineOrchestrator(
	collector *Collector,
	archives *ArchiveManager,
	sync *StoreSync,
	snapshots driven.SnapshotStore,
) *PipelineOrchestrator {
	return &PipelineOrchestrator{
		collector: collector,
		archives:  archives,
		sync:      sync,
		snapshots: snapshots,
	}
}

// Run executes one mode. The first failing step stops the run and its
// error is returned alongside the reports of the steps that ran.
func (p *PipelineOrchestrator) Run(ctx context.Context, req driving.RunRequest) (*driving.RunReport, error) {
	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, req.Category)
	}

	report := &driving.RunReport{}
	var err error

	switch req.Mode {
	case domain.ModeCollect:
		logger.Section("collect " + string(req.Category))
		if report.Collect, err = p.collector.Collect(ctx, req.Category, req.SearchTerm); err != nil {
			return report, err
		}
		logger.Section("archive " + string(req.Category))
		if report.Archive, err = p.archives.Pack(ctx, req.Category); err != nil {
			return report, err
		}
		logger.Section("sync " + string(req.Category))
		report.Sync, err = p.sync.Sync(ctx, req.Category)

	case domain.ModeArchive:
		logger.Section("archive " + string(req.Category))
		report.Archive, err = p.archives.Pack(ctx, req.Category)

	case domain.ModeRestore:
		logger.Section("restore " + string(req.Category))
		if report.Archive, err = p.archives.Restore(ctx, req.Category); err != nil {
			return report, err
		}
		logger.Section("sync " + string(req.Category))
		report.Sync, err = p.sync.Sync(ctx, req.Category)

	case domain.ModeSync:
		logger.Section("sync " + string(req.Category))
		report.Sync, err = p.sync.Sync(ctx, req.Category)

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMode, req.Mode)
	}

	return report, err
}

// Snapshots describes the snapshot files of a category.
func (p *PipelineOrchestrator) Snapshots(_ context.Context, category domain.Category) ([]domain.SnapshotInfo, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	return p.snapshots.List(category)
}

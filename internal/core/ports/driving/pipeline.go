package driving

import (
	"context"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
)

// Pipeline runs the data pipeline on behalf of the operator.
type Pipeline interface {
	// Run executes one mode for one category.
	Run(ctx context.Context, req RunRequest) (*RunReport, error)

	// Snapshots describes the snapshot files of a category.
	Snapshots(ctx context.Context, category domain.Category) ([]domain.SnapshotInfo, error)
}

// RunRequest is the operator's resolved intent.
type RunRequest struct {
	// Mode selects what to do.
	Mode domain.Mode

	// Category selects the data set.
	Category domain.Category

	// SearchTerm is the GitHub user searched for. Only used when collecting repositories.
	SearchTerm string
}

// RunReport holds the report of every step that ran.
// Steps that did not run are nil.
type RunReport struct {
	Collect *domain.CollectReport
	Archive *domain.ArchiveReport
	Sync    *domain.SyncReport
}

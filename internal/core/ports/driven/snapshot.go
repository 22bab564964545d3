package driven

import "github.com/custodia-labs/ghpipe/internal/core/domain"

// SnapshotStore persists fetched pages as JSON files, one directory per category.
type SnapshotStore interface {
	// Write stores items as <prefix>-<identifier>.json and returns the file path.
	// The file is either fully written or not visible at all.
	Write(category domain.Category, identifier string, items []domain.Document) (string, error)

	// Load reads every snapshot of a category. Unparsable files are
	// reported in SnapshotSet.Skipped, not returned as errors.
	Load(category domain.Category) (*domain.SnapshotSet, error)

	// List describes the snapshot files of a category.
	List(category domain.Category) ([]domain.SnapshotInfo, error)

	// Dir returns the snapshot directory of a category.
	Dir(category domain.Category) string
}

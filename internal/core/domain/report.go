package domain

import "time"

// CollectReport summarises one collection pass.
type CollectReport struct {
	Category  Category
	Calls     int
	Retries   int
	Files     int
	Documents int
	Total     int
}

// SyncPath is the branch StoreSync took.
type SyncPath string

const (
	// SyncPathCreate bulk-inserts into a fresh collection.
	SyncPathCreate SyncPath = "create"
	// SyncPathUpdate upserts every document by key.
	SyncPathUpdate SyncPath = "update"
)

// SyncReport summarises one store reconciliation.
type SyncReport struct {
	Category Category
	Path     SyncPath
	Files    int
	Skipped  []string
	Loaded   int
	Written  int
	Failed   int
}

// ArchiveReport summarises a pack or restore.
type ArchiveReport struct {
	Category      Category
	ArchivePath   string
	EncryptedPath string
	ArchiveSize   int64
	EncryptedSize int64
}

// SnapshotInfo describes one snapshot file on disk.
type SnapshotInfo struct {
	Name     string
	Path     string
	Size     int64
	ModTime  time.Time
	Records  int
	Readable bool
}

// SnapshotSet is every snapshot of a category loaded from disk.
type SnapshotSet struct {
	Category Category
	Dir      string
	// Batches holds one entry per readable file, ordered by file name.
	Batches [][]Document
	// Files are the names of the readable files, parallel to Batches.
	Files []string
	// Skipped are files that failed to parse.
	Skipped []string
}

// Documents flattens all batches.
func (s *SnapshotSet) Documents() []Document {
	var docs []Document
	for _, b := range s.Batches {
		docs = append(docs, b...)
	}
	return docs
}

// Count is the number of loaded documents.
func (s *SnapshotSet) Count() int {
	n := 0
	for _, b := range s.Batches {
		n += len(b)
	}
	return n
}

// Package file stores category snapshots as pretty-printed JSON files.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ghpipe/internal/logger"
)

const (
	dirPerm  = 0755
	filePerm = 0644
	ext      = ".json"
)

// Verify interface compliance.
var _ driven.SnapshotStore = (*Store)(nil)

// Store reads and writes snapshot files under a data layout.
type Store struct {
	layout domain.Layout
}

// NewStore creates a snapshot store for layout.
func NewStore(layout domain.Layout) *Store {
	return &Store{layout: layout}
}

// Dir returns the snapshot directory of a category.
func (s *Store) Dir(category domain.Category) string {
	return s.layout.OutputDir(category)
}

// FileName returns the snapshot file name for an identifier.
func FileName(category domain.Category, identifier string) string {
	return category.Prefix() + "-" + identifier + ext
}

// Write stores items as <prefix>-<identifier>.json.
// The content goes to a temp file in the same directory which is synced and
// renamed into place, so readers never observe a partial file.
func (s *Store) Write(category domain.Category, identifier string, items []domain.Document) (string, error) {
	if identifier == "" || strings.ContainsAny(identifier, `/\`) || strings.Contains(identifier, "..") {
		return "", fmt.Errorf("%w: invalid identifier %q", domain.ErrSnapshotWrite, identifier)
	}
	if items == nil {
		items = []domain.Document{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode %s: %w", domain.ErrSnapshotWrite, identifier, err)
	}

	dir := s.Dir(category)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", domain.ErrSnapshotWrite, dir, err)
	}

	name := FileName(category, identifier)
	path := filepath.Join(dir, name)
	if err := writeAtomic(dir, name, path, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrSnapshotWrite, path, err)
	}

	logger.Debug("wrote %d records to %s", len(items), path)
	return path, nil
}

func writeAtomic(dir, name, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	committed = true
	return nil
}

// Load reads every .json file of a category in file name order.
// Files that fail to parse are recorded in Skipped and logged.
func (s *Store) Load(category domain.Category) (*domain.SnapshotSet, error) {
	dir := s.Dir(category)
	names, err := snapshotNames(dir)
	if err != nil {
		return nil, err
	}

	set := &domain.SnapshotSet{Category: category, Dir: dir}
	for _, name := range names {
		docs, err := readSnapshot(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping snapshot %s: %v", name, err)
			set.Skipped = append(set.Skipped, name)
			continue
		}
		set.Batches = append(set.Batches, docs)
		set.Files = append(set.Files, name)
	}

	logger.Debug("loaded %d records from %d files in %s", set.Count(), len(set.Files), dir)
	return set, nil
}

// List describes the snapshot files of a category.
func (s *Store) List(category domain.Category) ([]domain.SnapshotInfo, error) {
	dir := s.Dir(category)
	names, err := snapshotNames(dir)
	if err != nil {
		return nil, err
	}

	infos := make([]domain.SnapshotInfo, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		st, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %w", domain.ErrSnapshotRead, path, err)
		}
		info := domain.SnapshotInfo{
			Name:    name,
			Path:    path,
			Size:    st.Size(),
			ModTime: st.ModTime(),
		}
		if docs, err := readSnapshot(path); err == nil {
			info.Records = len(docs)
			info.Readable = true
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// snapshotNames returns the sorted .json file names in dir.
func snapshotNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSnapshotRead, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func readSnapshot(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var docs []domain.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

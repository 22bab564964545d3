package domain

import (
	"fmt"
	"path/filepath"
)

// Layout describes where snapshots and archives live.
// Root is the working tree that archives are packed from and restored into.
// Data is the data directory relative to Root.
type Layout struct {
	Root string
	Data string
}

// NewLayout builds a layout for a data directory.
// Relative directories are resolved against the current working directory.
func NewLayout(dataDir string) (Layout, error) {
	if dataDir == "" {
		dataDir = ".data"
	}
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return Layout{Root: filepath.Dir(abs), Data: filepath.Base(abs)}, nil
}

// OutputDir is the snapshot directory of a category.
func (l Layout) OutputDir(c Category) string {
	return filepath.Join(l.Root, l.RelativeOutputDir(c))
}

// RelativeOutputDir is the snapshot directory of a category relative to Root.
// Archive entries are stored under this path.
func (l Layout) RelativeOutputDir(c Category) string {
	return filepath.Join(l.Data, "output", "github", string(c))
}

// ArtifactDir is the directory holding archives.
func (l Layout) ArtifactDir() string {
	return filepath.Join(l.Root, l.Data, "artifact", "github")
}

// ArchivePath is the plaintext archive of a category.
func (l Layout) ArchivePath(c Category) string {
	return filepath.Join(l.ArtifactDir(), c.ArchiveName())
}

// EncryptedArchivePath is the encrypted archive of a category.
func (l Layout) EncryptedArchivePath(c Category) string {
	return filepath.Join(l.ArtifactDir(), c.EncryptedArchiveName())
}

package native

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ghpipe/internal/logger"
)

// ErrUnsafePath is returned for archive entries that would land outside the destination.
var ErrUnsafePath = errors.New("archive entry escapes destination")

// Verify interface compliance.
var _ driven.Archiver = (*Archiver)(nil)

// Archiver implements driven.Archiver with archive/tar and compress/gzip.
type Archiver struct{}

// NewArchiver creates a tar.gz archiver.
func NewArchiver() *Archiver {
	return &Archiver{}
}

// Compress writes a gzip-compressed tar of root/source to output.
// Entry names are slash-separated paths relative to root. A failed
// write leaves no file at output.
func (a *Archiver) Compress(ctx context.Context, output, root, source string) error {
	return writeFile(output, func(w io.Writer) error {
		gz := gzip.NewWriter(w)
		tw := tar.NewWriter(gz)

		walkErr := filepath.WalkDir(filepath.Join(root, source), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			return addEntry(tw, root, path, d)
		})
		if walkErr != nil {
			return fmt.Errorf("add %s: %w", source, walkErr)
		}

		if err := tw.Close(); err != nil {
			return fmt.Errorf("finish tar: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("finish gzip: %w", err)
		}
		return nil
	})
}

func addEntry(tw *tar.Writer, root, path string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() && !info.IsDir() {
		logger.Debug("skipping non-regular file %s", path)
		return nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.ToSlash(rel)
	if info.IsDir() {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(tw, src)
	return err
}

// Decompress unpacks a tar.gz archive into dest, overwriting existing files.
// Absolute entries and entries escaping dest are rejected.
func (a *Archiver) Decompress(ctx context.Context, archive, dest string) error {
	f, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("read gzip: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create %s: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			if err := extractFile(tr, target, hdr.FileInfo().Mode().Perm()); err != nil {
				return fmt.Errorf("extract %s: %w", hdr.Name, err)
			}
		default:
			logger.Warn("skipping unsupported archive entry %s", hdr.Name)
		}
	}
}

func extractFile(r io.Reader, target string, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	if perm == 0 {
		perm = 0644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// safeJoin resolves an entry name under dest.
func safeJoin(dest, name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return filepath.Join(dest, clean), nil
}

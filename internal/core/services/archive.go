package services

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ghpipe/internal/logger"
)

// ArchiveManager packs snapshot directories into encrypted archives and back.
type ArchiveManager struct {
	layout     domain.Layout
	archiver   driven.Archiver
	cipher     driven.Cipher
	passphrase string
}

// NewArchiveManager creates an archive manager.
// The passphrase is only handed to the cipher.
func NewArchiveManager(
	layout domain.Layout,
	archiver driven.Archiver,
	cipher driven.Cipher,
	passphrase string,
) *ArchiveManager {
	return &ArchiveManager{
		layout:     layout,
		archiver:   archiver,
		cipher:     cipher,
		passphrase: passphrase,
	}
}

// Pack compresses the category's snapshot directory and encrypts the result.
// If encryption fails the plaintext archive stays on disk.
func (m *ArchiveManager) Pack(ctx context.Context, category domain.Category) (*domain.ArchiveReport, error) {
	report := &domain.ArchiveReport{
		Category:      category,
		ArchivePath:   m.layout.ArchivePath(category),
		EncryptedPath: m.layout.EncryptedArchivePath(category),
	}

	source := m.layout.RelativeOutputDir(category)
	if _, err := os.Stat(m.layout.OutputDir(category)); err != nil {
		return report, fmt.Errorf("%w: %w", domain.ErrArchive, err)
	}

	logger.Info("compressing %s", source)
	if err := m.archiver.Compress(ctx, report.ArchivePath, m.layout.Root, source); err != nil {
		return report, fmt.Errorf("%w: %s: %w", domain.ErrArchive, report.ArchivePath, err)
	}
	report.ArchiveSize = fileSize(report.ArchivePath)

	logger.Info("encrypting %s", report.ArchivePath)
	if err := m.cipher.Encrypt(ctx, report.ArchivePath, report.EncryptedPath, m.passphrase); err != nil {
		return report, fmt.Errorf("%w: %s: %w", domain.ErrEncrypt, report.EncryptedPath, err)
	}
	report.EncryptedSize = fileSize(report.EncryptedPath)

	return report, nil
}

// Restore decrypts the category's archive and unpacks it into the working root.
// Existing files with the same path are overwritten; nothing is rolled back.
func (m *ArchiveManager) Restore(ctx context.Context, category domain.Category) (*domain.ArchiveReport, error) {
	report := &domain.ArchiveReport{
		Category:      category,
		ArchivePath:   m.layout.ArchivePath(category),
		EncryptedPath: m.layout.EncryptedArchivePath(category),
	}

	if _, err := os.Stat(report.EncryptedPath); err != nil {
		return report, fmt.Errorf("%w: %w", domain.ErrDecrypt, err)
	}
	report.EncryptedSize = fileSize(report.EncryptedPath)

	logger.Info("decrypting %s", report.EncryptedPath)
	if err := m.cipher.Decrypt(ctx, report.EncryptedPath, report.ArchivePath, m.passphrase); err != nil {
		return report, fmt.Errorf("%w: %s: %w", domain.ErrDecrypt, report.EncryptedPath, err)
	}
	report.ArchiveSize = fileSize(report.ArchivePath)

	logger.Info("unpacking %s into %s", report.ArchivePath, m.layout.Root)
	if err := m.archiver.Decompress(ctx, report.ArchivePath, m.layout.Root); err != nil {
		return report, fmt.Errorf("%w: %s: %w", domain.ErrUnpack, report.ArchivePath, err)
	}

	return report, nil
}

func fileSize(path string) int64 {
	st, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return st.Size()
}

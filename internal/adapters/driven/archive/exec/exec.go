// Package exec packs and encrypts archives with the tar and gpg binaries.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ghpipe/internal/logger"
)

// Default binaries, resolved through PATH.
const (
	DefaultTar = "tar"
	DefaultGPG = "gpg"
)

// Runner runs an external command with optional stdin.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin io.Reader) error
}

// CommandRunner runs commands with os/exec, reporting stderr on failure.
type CommandRunner struct{}

// Run executes name with args.
func (CommandRunner) Run(ctx context.Context, name string, args []string, stdin io.Reader) error {
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Verify interface compliance.
var (
	_ driven.Archiver = (*Archiver)(nil)
	_ driven.Cipher   = (*Cipher)(nil)
)

// Archiver shells out to tar.
type Archiver struct {
	runner Runner
	tar    string
}

// NewArchiver creates a tar-backed archiver. Empty binary uses DefaultTar.
func NewArchiver(runner Runner, tarBin string) *Archiver {
	if runner == nil {
		runner = CommandRunner{}
	}
	if tarBin == "" {
		tarBin = DefaultTar
	}
	return &Archiver{runner: runner, tar: tarBin}
}

// Compress runs `tar -czf output -C root source`.
func (a *Archiver) Compress(ctx context.Context, output, root, source string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	args := []string{"-czf", output, "-C", root, source}
	logger.Debug("%s %s", a.tar, strings.Join(args, " "))
	return a.runner.Run(ctx, a.tar, args, nil)
}

// Decompress runs `tar -xzf archive -C dest`.
func (a *Archiver) Decompress(ctx context.Context, archive, dest string) error {
	args := []string{"-xzf", archive, "-C", dest}
	logger.Debug("%s %s", a.tar, strings.Join(args, " "))
	return a.runner.Run(ctx, a.tar, args, nil)
}

// Cipher shells out to gpg. The passphrase is written to gpg's stdin and
// never appears in arguments or logs.
type Cipher struct {
	runner Runner
	gpg    string
}

// NewCipher creates a gpg-backed cipher. Empty binary uses DefaultGPG.
func NewCipher(runner Runner, gpgBin string) *Cipher {
	if runner == nil {
		runner = CommandRunner{}
	}
	if gpgBin == "" {
		gpgBin = DefaultGPG
	}
	return &Cipher{runner: runner, gpg: gpgBin}
}

func (c *Cipher) baseArgs() []string {
	return []string{"--batch", "--yes", "--pinentry-mode", "loopback", "--passphrase-fd", "0"}
}

// Encrypt runs gpg --symmetric with AES-256.
func (c *Cipher) Encrypt(ctx context.Context, input, output, passphrase string) error {
	args := append(c.baseArgs(), "--symmetric", "--cipher-algo", "AES256", "--output", output, input)
	logger.Debug("%s %s", c.gpg, strings.Join(args, " "))
	return c.runner.Run(ctx, c.gpg, args, strings.NewReader(passphrase))
}

// Decrypt runs gpg --decrypt.
func (c *Cipher) Decrypt(ctx context.Context, input, output, passphrase string) error {
	args := append(c.baseArgs(), "--output", output, "--decrypt", input)
	logger.Debug("%s %s", c.gpg, strings.Join(args, " "))
	return c.runner.Run(ctx, c.gpg, args, strings.NewReader(passphrase))
}

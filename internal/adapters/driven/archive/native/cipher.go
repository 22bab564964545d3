package native

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
)

var (
	// ErrEmptyPassphrase is returned when no passphrase is configured.
	ErrEmptyPassphrase = errors.New("passphrase is empty")

	// ErrBadPassphrase is returned when the passphrase does not decrypt the message.
	ErrBadPassphrase = errors.New("passphrase does not decrypt message")
)

// Verify interface compliance.
var _ driven.Cipher = (*Cipher)(nil)

// Cipher implements driven.Cipher with OpenPGP symmetric encryption.
type Cipher struct {
	config *packet.Config
}

// NewCipher creates an AES-256 OpenPGP cipher.
func NewCipher() *Cipher {
	return &Cipher{config: &packet.Config{DefaultCipher: packet.CipherAES256}}
}

// Encrypt writes an OpenPGP symmetrically encrypted copy of input to output.
func (c *Cipher) Encrypt(ctx context.Context, input, output, passphrase string) error {
	if passphrase == "" {
		return ErrEmptyPassphrase
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer in.Close()

	st, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", input, err)
	}

	return writeFile(output, func(out io.Writer) error {
		hints := &openpgp.FileHints{IsBinary: true, FileName: filepath.Base(input), ModTime: st.ModTime()}
		w, err := openpgp.SymmetricallyEncrypt(out, []byte(passphrase), hints, c.config)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, in); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	})
}

// Decrypt writes the plaintext of an OpenPGP symmetrically encrypted input to output.
func (c *Cipher) Decrypt(ctx context.Context, input, output, passphrase string) error {
	if passphrase == "" {
		return ErrEmptyPassphrase
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer in.Close()

	// ReadMessage asks again after a wrong passphrase; answer once.
	tried := false
	prompt := func([]openpgp.Key, bool) ([]byte, error) {
		if tried {
			return nil, ErrBadPassphrase
		}
		tried = true
		return []byte(passphrase), nil
	}

	md, err := openpgp.ReadMessage(in, openpgp.EntityList{}, prompt, c.config)
	if err != nil {
		return fmt.Errorf("read message: %w", err)
	}

	return writeFile(output, func(out io.Writer) error {
		// The integrity check runs when the body reaches EOF.
		_, err := io.Copy(out, md.UnverifiedBody)
		return err
	})
}

// writeFile creates path, runs fill and removes the file when fill fails.
func writeFile(path string, fill func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fill(out); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

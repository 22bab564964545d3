package driven

import "context"

// Archiver bundles a directory tree into a compressed archive and back.
type Archiver interface {
	// Compress writes output containing source, a path relative to root.
	// Entry names are relative to root.
	Compress(ctx context.Context, output, root, source string) error

	// Decompress unpacks archive into dest, overwriting existing files.
	Decompress(ctx context.Context, archive, dest string) error
}

// Cipher symmetrically encrypts and decrypts files with a passphrase.
type Cipher interface {
	// Encrypt writes an AES-256 encrypted copy of input to output.
	Encrypt(ctx context.Context, input, output, passphrase string) error

	// Decrypt writes the plaintext of input to output.
	Decrypt(ctx context.Context, input, output, passphrase string) error
}

package native

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	source := filepath.Join(".data", "output", "github", "repos")
	files := map[string]string{
		".data/output/github/repos/repos-1.json": `[{"url":"a"}]`,
		".data/output/github/repos/repos-2.json": `[{"url":"b"},{"url":"c"}]`,
	}
	writeTree(t, root, files)

	archive := filepath.Join(root, ".data", "artifact", "github", "github-repos.tar.gz")
	encrypted := archive + ".gpg"

	archiver := NewArchiver()
	cipher := NewCipher()

	require.NoError(t, archiver.Compress(ctx, archive, root, source))
	require.NoError(t, cipher.Encrypt(ctx, archive, encrypted, "s3cret"))

	ciphertext := readFile(t, encrypted)
	assert.NotContains(t, ciphertext, `"url"`)

	require.NoError(t, os.RemoveAll(filepath.Join(root, source)))
	require.NoError(t, os.Remove(archive))

	require.NoError(t, cipher.Decrypt(ctx, encrypted, archive, "s3cret"))
	require.NoError(t, archiver.Decompress(ctx, archive, root))

	for name, content := range files {
		assert.Equal(t, content, readFile(t, filepath.Join(root, filepath.FromSlash(name))), name)
	}
}

func TestDecompress_OverwritesExisting(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeTree(t, root, map[string]string{"out/a.json": "fresh"})

	archive := filepath.Join(t.TempDir(), "a.tar.gz")
	require.NoError(t, NewArchiver().Compress(ctx, archive, root, "out"))

	writeTree(t, root, map[string]string{"out/a.json": "stale and longer"})
	require.NoError(t, NewArchiver().Decompress(ctx, archive, root))

	assert.Equal(t, "fresh", readFile(t, filepath.Join(root, "out", "a.json")))
}

func TestCompress_MissingSource(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "x.tar.gz")

	err := NewArchiver().Compress(context.Background(), archive, t.TempDir(), "missing")

	assert.Error(t, err)
	assert.NoFileExists(t, archive)
}

func TestCompress_CanceledRemovesPartialArchive(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "out"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "out", "a.json"), []byte("[]"), 0644))
	archive := filepath.Join(t.TempDir(), "x.tar.gz")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewArchiver().Compress(ctx, archive, root, "out")

	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, archive)
}

func buildArchive(t *testing.T, names ...string) string {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, name := range names {
		body := []byte("payload")
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(body)), Typeflag: tar.TypeReg}))
		_, err := tw.Write(body)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "evil.tar.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestDecompress_RejectsUnsafePaths(t *testing.T) {
	for _, name := range []string{"../escape.json", "a/../../escape.json", "/etc/escape.json"} {
		t.Run(name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "dest")
			require.NoError(t, os.MkdirAll(dest, 0755))

			err := NewArchiver().Decompress(context.Background(), buildArchive(t, name), dest)

			assert.ErrorIs(t, err, ErrUnsafePath)
			assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), "escape.json"))
		})
	}
}

func TestDecompress_NotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))

	assert.Error(t, NewArchiver().Decompress(context.Background(), path, t.TempDir()))
}

func TestCipher_Failures(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.bin")
	require.NoError(t, os.WriteFile(plain, []byte("hello"), 0644))
	encrypted := filepath.Join(dir, "plain.bin.gpg")
	cipher := NewCipher()

	t.Run("empty passphrase", func(t *testing.T) {
		assert.ErrorIs(t, cipher.Encrypt(ctx, plain, encrypted, ""), ErrEmptyPassphrase)
		assert.NoFileExists(t, encrypted)
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		require.NoError(t, cipher.Encrypt(ctx, plain, encrypted, "right"))

		out := filepath.Join(dir, "decrypted.bin")
		err := cipher.Decrypt(ctx, encrypted, out, "wrong")

		assert.Error(t, err)
		assert.NoFileExists(t, out)
	})

	t.Run("missing input", func(t *testing.T) {
		assert.Error(t, cipher.Decrypt(ctx, filepath.Join(dir, "missing.gpg"), filepath.Join(dir, "x"), "right"))
	})
}

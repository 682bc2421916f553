package util

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := WriteFileAtomic(dir, "pbf.png", []byte("one"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pbf.png"), path)

	path, err = WriteFileAtomic(dir, "pbf.png", []byte("two"))
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomic_StripsDirectories(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteFileAtomic(dir, "../escape.png", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.png"), path)
}

func TestCleanupPartialFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".xkcd.png-123.part"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xkcd.png"), []byte("x"), 0o644))

	var out bytes.Buffer
	CleanupPartialFiles(dir, &out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "xkcd.png", entries[0].Name())
	assert.Contains(t, out.String(), "Removed ")
}

func TestRemoveIfEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.Mkdir(dir, 0o755))

	var out bytes.Buffer
	RemoveIfEmpty(dir, &out)

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, out.String(), "Removed empty output folder")
}

func TestHuman(t *testing.T) {
	assert.Equal(t, "512 B", Human(512))
	assert.Equal(t, "1.50 KB", Human(1536))
	assert.Equal(t, "2.00 MB", Human(2<<20))
}

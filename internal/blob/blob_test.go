package blob

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "blobs")
	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteReadRoundTrip(t *testing.T) {
	store, dir := newStore(t)

	content := []byte("screenshot bytes")
	require.NoError(t, store.Write("shot.png", content))

	got, err := store.Read("shot.png")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	assert.True(t, store.Exists("shot.png"))
	assert.Equal(t, filepath.Join(dir, "shot.png"), store.Path("shot.png"))
}

func TestWriteOverwrites(t *testing.T) {
	store, _ := newStore(t)

	require.NoError(t, store.Write("shot.png", []byte("first")))
	require.NoError(t, store.Write("shot.png", []byte("second")))

	got, err := store.Read("shot.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	store, dir := newStore(t)

	require.NoError(t, store.Write("shot.png", []byte("content")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shot.png", entries[0].Name())
}

func TestReadMissing(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Read("missing.png")
	assert.ErrorIs(t, err, ErrBlobNotFound)
	assert.False(t, store.Exists("missing.png"))
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, _ := newStore(t)

	require.NoError(t, store.Write("shot.png", []byte("content")))
	require.NoError(t, store.Delete("shot.png"))
	assert.False(t, store.Exists("shot.png"))

	assert.NoError(t, store.Delete("shot.png"), "deleting a missing blob is not an error")
}

func TestPathNeverEscapesDirectory(t *testing.T) {
	store, dir := newStore(t)

	path := store.Path("../../etc/passwd")
	assert.Equal(t, filepath.Join(dir, "passwd"), path)
}

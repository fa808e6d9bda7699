package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir)
	require.NoError(t, err)

	err = storage.Save("photo-1.jpg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "photo-1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))

	require.NoError(t, storage.Delete("photo-1.jpg"))
	_, err = os.Stat(filepath.Join(dir, "photo-1.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageDeleteIsIdempotent(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	// Cascades call Delete for refs that may already be gone.
	assert.NoError(t, storage.Delete("never-saved.jpg"))
}

func TestLocalStorageNeutralizesPathTraversal(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir)
	require.NoError(t, err)

	require.NoError(t, storage.Save("../escape.jpg", strings.NewReader("nope")))

	// The ref is flattened into the storage root, never outside it.
	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "escape.jpg"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(dir, "escape.jpg"))
	assert.NoError(t, statErr)
}

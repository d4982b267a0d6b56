package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPhotoStore(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	url, err := store.Save("casa da família.JPG", []byte("fake-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/casa-"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	objectName := filepath.Base(url)
	data, err := os.ReadFile(filepath.Join(dir, objectName))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-bytes"), data)

	require.NoError(t, store.Delete(objectName))
	_, err = os.Stat(filepath.Join(dir, objectName))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveUnknownExtensionFallsBackToJpg(t *testing.T) {
	store, err := NewPhotoStore(t.TempDir(), "http://x/uploads")
	require.NoError(t, err)

	url, err := store.Save("foto.exe", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".jpg"))
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store, err := NewPhotoStore(t.TempDir(), "http://x/uploads")
	require.NoError(t, err)

	a, err := store.Save("casa.png", []byte("a"))
	require.NoError(t, err)
	b, err := store.Save("casa.png", []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDeleteMissingObjectIsNoop(t *testing.T) {
	store, err := NewPhotoStore(t.TempDir(), "http://x/uploads")
	require.NoError(t, err)

	assert.NoError(t, store.Delete("casa-ghost.jpg"))
}

func TestNewPhotoStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	store, err := NewPhotoStore(dir, "http://x/uploads")
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

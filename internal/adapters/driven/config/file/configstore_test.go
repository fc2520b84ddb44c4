package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("source.base_url", "https://docs.example.com"))

	assert.Equal(t, "https://docs.example.com", store.GetString("source.base_url"))

	val, ok := store.Get("source.base_url")
	assert.True(t, ok)
	assert.Equal(t, "https://docs.example.com", val)
}

func TestConfigStore_GetString_Missing(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "", store.GetString("does.not.exist"))
}

func TestConfigStore_Delete(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("openai.api_key", "sk-secret"))
	require.NoError(t, store.Delete("openai.api_key"))

	assert.Equal(t, "", store.GetString("openai.api_key"))

	// Deleting again is a no-op.
	require.NoError(t, store.Delete("openai.api_key"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("openai.api_key", "sk-secret"))
	require.NoError(t, store.Set("source.base_url", "https://docs.example.com"))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "sk-secret", reopened.GetString("openai.api_key"))
	assert.Equal(t, "https://docs.example.com", reopened.GetString("source.base_url"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("openai.api_key", "sk-secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

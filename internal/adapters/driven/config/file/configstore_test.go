package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyModelName, "gemma3:4b"))

	val, ok := store.Get(KeyModelName)
	assert.True(t, ok)
	assert.Equal(t, "gemma3:4b", val)
	assert.Equal(t, "gemma3:4b", store.GetString(KeyModelName))
}

func TestConfigStore_MissingKey(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("nope"))
	assert.Equal(t, 0, store.GetInt("nope"))
	assert.False(t, store.GetBool("nope"))
	assert.Nil(t, store.GetStringSlice("nope"))
}

func TestConfigStore_PersistsAcrossLoads(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeySourceDir, "/srv/docs"))
	require.NoError(t, store.Set("pipeline.max_keywords", 8))
	require.NoError(t, store.Set("pipeline.extensions", []string{".pdf", ".md"}))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/docs", reloaded.GetString(KeySourceDir))
	assert.Equal(t, 8, reloaded.GetInt("pipeline.max_keywords"))
	assert.Equal(t, []string{".pdf", ".md"}, reloaded.GetStringSlice("pipeline.extensions"))
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[model]\nname = \"llama3\"\nbase_url = \"http://localhost:11434\"\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "llama3", store.GetString(KeyModelName))
	assert.Equal(t, "http://localhost:11434", store.GetString(KeyModelURL))
}

func TestConfigStore_RestrictedFilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

package fingerprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	store := NewStore(path)
	store.Set("templates", "index.html", Fingerprint{ModTime: 1234567890123, ContentHash: "a1"})
	store.Set("posts", "hello.md", Fingerprint{ModTime: 99, ContentHash: "b2"})
	require.NoError(t, store.Persist())

	loaded, err := Load(path)
	require.NoError(t, err)

	fp, ok := loaded.Get("templates", "index.html")
	require.True(t, ok)
	assert.Equal(t, int64(1234567890123), fp.ModTime)
	assert.Equal(t, "a1", fp.ContentHash)

	// Persisting without change and reloading must reproduce identical fingerprints.
	require.NoError(t, loaded.Persist())
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, loaded.Categories, again.Categories)
	assert.NotEmpty(t, again.BuildID)
}

func TestLoadCorruptState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, sgerrors.IsCategory(err, sgerrors.CategoryState))
}

func TestLoadMissingState(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "history.json"))
	require.Error(t, err)
	assert.True(t, sgerrors.IsCategory(err, sgerrors.CategoryState))
}

func TestStoreRemove(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "history.json"))
	store.Set("assets", "logo.png", Fingerprint{ModTime: 1, ContentHash: "x"})
	store.Remove("assets", "logo.png")

	_, ok := store.Get("assets", "logo.png")
	assert.False(t, ok)
}

func TestInitSeedsCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, Init(path, []string{"templates", "posts", "assets", "data"}))

	store, err := Load(path)
	require.NoError(t, err)
	for _, c := range []string{"templates", "posts", "assets", "data"} {
		_, ok := store.Categories[c]
		assert.True(t, ok, "category %s missing", c)
	}
}

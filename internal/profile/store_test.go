package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

func testConfig() adapter.ConnectionConfig {
	return adapter.ConnectionConfig{
		DatabaseID:   dbcapabilities.PostgreSQL,
		Host:         "localhost",
		Port:         5432,
		Username:     "app",
		DatabaseName: "appdb",
	}
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.json")
	store, err := NewStore(path, zap.NewNop())
	require.NoError(t, err)
	return store, path
}

func TestStoreAddGetRemove(t *testing.T) {
	store, _ := newTestStore(t)

	id, err := store.Add("prod", testConfig())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	t.Run("get returns the stored profile", func(t *testing.T) {
		p, err := store.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "prod", p.Alias)
		assert.Equal(t, "localhost:5432", p.Target())
	})

	t.Run("get unknown id fails", func(t *testing.T) {
		_, err := store.Get("nope")
		assert.ErrorIs(t, err, adapter.ErrProfileNotFound)
	})

	t.Run("remove deletes the profile", func(t *testing.T) {
		require.NoError(t, store.Remove(id))
		_, err := store.Get(id)
		assert.ErrorIs(t, err, adapter.ErrProfileNotFound)
	})

	t.Run("remove unknown id fails", func(t *testing.T) {
		assert.ErrorIs(t, store.Remove("nope"), adapter.ErrProfileNotFound)
	})
}

func TestStoreIDDerivation(t *testing.T) {
	store, _ := newTestStore(t)

	t.Run("id carries type and target", func(t *testing.T) {
		id, err := store.Add("a", testConfig())
		require.NoError(t, err)
		assert.Contains(t, id, "postgres")
		assert.Contains(t, id, "localhost_5432")
	})

	t.Run("same target yields distinct ids", func(t *testing.T) {
		first, err := store.Add("a", testConfig())
		require.NoError(t, err)
		second, err := store.Add("b", testConfig())
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("file backends use the path as target", func(t *testing.T) {
		id, err := store.Add("local", adapter.ConnectionConfig{
			DatabaseID: dbcapabilities.SQLite,
			FilePath:   "/data/app.db",
		})
		require.NoError(t, err)
		assert.Contains(t, id, "sqlite")

		p, err := store.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "/data/app.db", p.Target())
	})
}

func TestStoreUpdate(t *testing.T) {
	store, _ := newTestStore(t)
	id, err := store.Add("prod", testConfig())
	require.NoError(t, err)

	updated := testConfig()
	updated.Host = "db.internal"
	require.NoError(t, store.Update(id, "prod-renamed", updated))

	p, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "prod-renamed", p.Alias)
	assert.Equal(t, "db.internal", p.Config.Host)
	assert.Equal(t, id, p.ID)

	t.Run("update unknown id fails", func(t *testing.T) {
		assert.ErrorIs(t, store.Update("nope", "x", testConfig()), adapter.ErrProfileNotFound)
	})
}

func TestStorePersistence(t *testing.T) {
	t.Run("profiles survive a reload", func(t *testing.T) {
		store, path := newTestStore(t)
		id, err := store.Add("prod", testConfig())
		require.NoError(t, err)

		reloaded, err := NewStore(path, zap.NewNop())
		require.NoError(t, err)

		p, err := reloaded.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "prod", p.Alias)
		assert.Len(t, reloaded.List(), 1)
	})

	t.Run("persisted document carries configs and lastUpdated", func(t *testing.T) {
		store, path := newTestStore(t)
		_, err := store.Add("prod", testConfig())
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var doc map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Contains(t, doc, "configs")
		assert.Contains(t, doc, "lastUpdated")
	})

	t.Run("corrupt file resets to an empty store", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profiles.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		store, err := NewStore(path, zap.NewNop())
		require.NoError(t, err)
		assert.Empty(t, store.List())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, json.Valid(data))
	})

	t.Run("missing file starts empty", func(t *testing.T) {
		store, _ := newTestStore(t)
		assert.Empty(t, store.List())
	})
}

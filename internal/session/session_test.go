package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gridbase/gridbase/internal/database"
	"github.com/gridbase/gridbase/internal/profile"
	"github.com/gridbase/gridbase/internal/reconcile"
	"github.com/gridbase/gridbase/internal/registry"
	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()

	store, err := profile.NewStore(filepath.Join(dir, "profiles.json"), zap.NewNop())
	require.NoError(t, err)

	profileID, err := store.Add("local", adapter.ConnectionConfig{
		DatabaseID: dbcapabilities.SQLite,
		FilePath:   filepath.Join(dir, "app.db"),
	})
	require.NoError(t, err)

	reg := registry.NewRegistry(database.NewRegistry(), store, zap.NewNop())
	mgr := NewManager(reg, reconcile.NewEngine(zap.NewNop()), zap.NewNop())

	ctx := context.Background()
	_, err = mgr.Query(ctx, profileID,
		`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, email TEXT)`)
	require.NoError(t, err)
	_, err = mgr.Query(ctx, profileID,
		`INSERT INTO users (id, name, email) VALUES (1, 'ada', 'a@b'), (2, 'bob', NULL)`)
	require.NoError(t, err)

	return mgr, profileID
}

func refByName(t *testing.T, view *View, name string) string {
	t.Helper()
	for ref, row := range view.Rows {
		if row["name"] == name {
			return ref
		}
	}
	t.Fatalf("no row named %s", name)
	return ""
}

func TestOpen(t *testing.T) {
	mgr, profileID := newTestManager(t)

	view, err := mgr.Open(context.Background(), profileID, "users")
	require.NoError(t, err)

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, []string{"id"}, view.PrimaryKeys)
	assert.Len(t, view.Columns, 3)
	assert.Len(t, view.Rows, 2)
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("empty batch is a no-op returning the same rows", func(t *testing.T) {
		mgr, profileID := newTestManager(t)
		view, err := mgr.Open(ctx, profileID, "users")
		require.NoError(t, err)

		resp := mgr.Save(ctx, view.SessionID, reconcile.EditBatch{})
		assert.Equal(t, "success", resp.Status)
		assert.Len(t, resp.Rows, 2)
	})

	t.Run("full edit batch round-trips", func(t *testing.T) {
		mgr, profileID := newTestManager(t)
		view, err := mgr.Open(ctx, profileID, "users")
		require.NoError(t, err)

		batch := reconcile.EditBatch{
			Deleted: []reconcile.RowRef{refByName(t, view, "ada")},
			Modified: map[reconcile.RowRef]map[string]interface{}{
				refByName(t, view, "bob"): {"email": "bob@b"},
			},
			Inserted: map[reconcile.RowRef]map[string]interface{}{
				"new-0": {"id": "", "name": "grace", "email": ""},
			},
		}

		resp := mgr.Save(ctx, view.SessionID, batch)
		require.Equal(t, "success", resp.Status, resp.Message)
		require.Len(t, resp.Rows, 2)

		byName := map[string]map[string]interface{}{}
		for _, row := range resp.Rows {
			byName[row["name"].(string)] = row
		}
		assert.NotContains(t, byName, "ada")
		assert.Equal(t, "bob@b", byName["bob"]["email"])
		assert.Nil(t, byName["grace"]["email"])
		assert.NotNil(t, byName["grace"]["id"])
	})

	t.Run("validation failure returns an error envelope and writes nothing", func(t *testing.T) {
		mgr, profileID := newTestManager(t)
		view, err := mgr.Open(ctx, profileID, "users")
		require.NoError(t, err)

		batch := reconcile.EditBatch{
			Modified: map[reconcile.RowRef]map[string]interface{}{
				refByName(t, view, "bob"): {"name": ""},
			},
		}

		resp := mgr.Save(ctx, view.SessionID, batch)
		assert.Equal(t, "error", resp.Status)
		assert.Contains(t, resp.Message, "name")

		rows, err := mgr.Query(ctx, profileID, "SELECT name FROM users WHERE id = 2")
		require.NoError(t, err)
		assert.Equal(t, "bob", rows[0]["name"])
	})

	t.Run("unknown session", func(t *testing.T) {
		mgr, _ := newTestManager(t)
		resp := mgr.Save(ctx, "nope", reconcile.EditBatch{})
		assert.Equal(t, "error", resp.Status)
	})

	t.Run("snapshot refreshes after a successful save", func(t *testing.T) {
		mgr, profileID := newTestManager(t)
		view, err := mgr.Open(ctx, profileID, "users")
		require.NoError(t, err)

		first := mgr.Save(ctx, view.SessionID, reconcile.EditBatch{
			Deleted: []reconcile.RowRef{refByName(t, view, "ada")},
		})
		require.Equal(t, "success", first.Status, first.Message)

		// The refreshed snapshot is the new baseline; old refs are stale.
		second := mgr.Save(ctx, view.SessionID, reconcile.EditBatch{})
		assert.Equal(t, "success", second.Status)
		assert.Len(t, second.Rows, 1)
	})
}

func TestQuery(t *testing.T) {
	mgr, profileID := newTestManager(t)

	rows, err := mgr.Query(context.Background(), profileID, "SELECT name FROM users ORDER BY id")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ada", rows[0]["name"])

	t.Run("unknown profile", func(t *testing.T) {
		_, err := mgr.Query(context.Background(), "nope", "SELECT 1")
		assert.ErrorIs(t, err, adapter.ErrProfileNotFound)
	})
}

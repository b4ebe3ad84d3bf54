package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

func openTestConn(t *testing.T) adapter.Connection {
	t.Helper()

	conn, err := NewAdapter().Connect(context.Background(), adapter.ConnectionConfig{
		DatabaseID: dbcapabilities.SQLite,
		Name:       "test",
		FilePath:   ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	_, err = conn.DataOperations().Execute(context.Background(),
		`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, email TEXT)`)
	require.NoError(t, err)

	return conn
}

func seedUsers(t *testing.T, conn adapter.Connection) {
	t.Helper()
	_, err := conn.DataOperations().Insert(context.Background(), "users", []map[string]interface{}{
		{"id": 1, "name": "ada", "email": "a@b"},
		{"id": 2, "name": "bob", "email": nil},
	})
	require.NoError(t, err)
}

func TestConnect(t *testing.T) {
	t.Run("missing file path fails before any io", func(t *testing.T) {
		_, err := NewAdapter().Connect(context.Background(), adapter.ConnectionConfig{
			DatabaseID: dbcapabilities.SQLite,
		})
		require.Error(t, err)
		assert.True(t, adapter.IsConfigurationError(err))
	})

	t.Run("in-memory database connects and pings", func(t *testing.T) {
		conn := openTestConn(t)
		assert.True(t, conn.IsConnected())
		assert.NoError(t, conn.Ping(context.Background()))
		assert.Equal(t, dbcapabilities.SQLite, conn.Type())
	})

	t.Run("close marks the connection disconnected", func(t *testing.T) {
		conn := openTestConn(t)
		require.NoError(t, conn.Close())
		assert.False(t, conn.IsConnected())
	})
}

func TestSchemaIntrospection(t *testing.T) {
	conn := openTestConn(t)
	schema := conn.SchemaOperations()

	t.Run("list tables excludes internal tables", func(t *testing.T) {
		tables, err := schema.ListTables(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"users"}, tables)
	})

	t.Run("list columns reports type, nullability and key membership", func(t *testing.T) {
		columns, err := schema.ListColumns(context.Background(), "users")
		require.NoError(t, err)
		require.Len(t, columns, 3)

		byName := map[string]adapter.ColumnMeta{}
		for _, col := range columns {
			byName[col.Name] = col
		}
		assert.True(t, byName["id"].IsPrimaryKey)
		assert.True(t, byName["name"].NotNull)
		assert.False(t, byName["email"].NotNull)
		assert.False(t, byName["email"].IsPrimaryKey)
	})

	t.Run("list primary keys", func(t *testing.T) {
		keys, err := schema.ListPrimaryKeys(context.Background(), "users")
		require.NoError(t, err)
		assert.Equal(t, []string{"id"}, keys)
	})

	t.Run("unknown table", func(t *testing.T) {
		_, err := schema.ListColumns(context.Background(), "missing")
		assert.ErrorIs(t, err, adapter.ErrTableNotFound)
	})
}

func TestDataOperations(t *testing.T) {
	conn := openTestConn(t)
	seedUsers(t, conn)
	data := conn.DataOperations()
	ctx := context.Background()

	t.Run("fetch returns normalized rows", func(t *testing.T) {
		rows, err := data.Fetch(ctx, "users", 10)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "ada", rows[0]["name"])
		assert.Nil(t, rows[1]["email"])
	})

	t.Run("fetch honors the limit", func(t *testing.T) {
		rows, err := data.Fetch(ctx, "users", 1)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("update targets by condition", func(t *testing.T) {
		count, err := data.Update(ctx, "users",
			map[string]interface{}{"email": "bob@b"},
			[]adapter.Condition{{Column: "id", Value: 2}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		rows, err := data.Execute(ctx, "SELECT email FROM users WHERE id = 2")
		require.NoError(t, err)
		assert.Equal(t, "bob@b", rows[0]["email"])
	})

	t.Run("is null conditions match null cells", func(t *testing.T) {
		count, err := data.Delete(ctx, "users",
			[]adapter.Condition{{Column: "email", IsNull: true}})
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("delete refuses an empty condition list", func(t *testing.T) {
		_, err := data.Delete(ctx, "users", nil)
		assert.Error(t, err)
	})

	t.Run("execute routes writes and reads", func(t *testing.T) {
		result, err := data.Execute(ctx, "INSERT INTO users (id, name) VALUES (9, 'eve')")
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, int64(1), result[0]["rowsAffected"])

		rows, err := data.Execute(ctx, "SELECT name FROM users WHERE id = 9")
		require.NoError(t, err)
		assert.Equal(t, "eve", rows[0]["name"])
	})

	t.Run("malformed sql surfaces a query error", func(t *testing.T) {
		_, err := data.Execute(ctx, "SELEKT * FROM users")
		require.Error(t, err)
		assert.ErrorIs(t, err, adapter.ErrInvalidQuery)
	})
}

func TestTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("commit applies all writes", func(t *testing.T) {
		conn := openTestConn(t)
		seedUsers(t, conn)

		tx, err := conn.TransactionOperations().Begin(ctx)
		require.NoError(t, err)

		_, err = tx.Insert(ctx, "users", []map[string]interface{}{
			{"id": 3, "name": "eve", "email": "e@b"},
		})
		require.NoError(t, err)
		_, err = tx.Delete(ctx, "users", []adapter.Condition{{Column: "id", Value: 1}})
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		rows, err := conn.DataOperations().Fetch(ctx, "users", 10)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("rollback leaves the table untouched", func(t *testing.T) {
		conn := openTestConn(t)
		seedUsers(t, conn)

		tx, err := conn.TransactionOperations().Begin(ctx)
		require.NoError(t, err)

		_, err = tx.Delete(ctx, "users", []adapter.Condition{{Column: "id", Value: 1}})
		require.NoError(t, err)
		require.NoError(t, tx.Rollback(ctx))

		rows, err := conn.DataOperations().Fetch(ctx, "users", 10)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func TestInsertAutogeneratesKeys(t *testing.T) {
	conn := openTestConn(t)
	ctx := context.Background()

	// Row without the primary key column: SQLite assigns the rowid.
	count, err := conn.DataOperations().Insert(ctx, "users", []map[string]interface{}{
		{"name": "grace", "email": "g@b"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rows, err := conn.DataOperations().Fetch(ctx, "users", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotNil(t, rows[0]["id"])
}

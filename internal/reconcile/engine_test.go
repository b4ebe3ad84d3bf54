package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// fakeConn is an in-memory adapter.Connection that records every write.
type fakeConn struct {
	columns     []adapter.ColumnMeta
	primaryKeys []string
	rows        []map[string]interface{}

	transactional bool
	failOn        string

	log        []string
	txBegun    int
	txCommits  int
	txRollback int
}

func newFakeConn(transactional bool) *fakeConn {
	return &fakeConn{
		columns:       userColumns,
		primaryKeys:   []string{"id"},
		transactional: transactional,
		rows: []map[string]interface{}{
			{"id": 1, "name": "ada", "email": "a@b"},
		},
	}
}

func (c *fakeConn) ID() string                      { return "fake" }
func (c *fakeConn) Type() dbcapabilities.DatabaseID { return dbcapabilities.SQLite }
func (c *fakeConn) IsConnected() bool               { return true }
func (c *fakeConn) Ping(ctx context.Context) error  { return nil }
func (c *fakeConn) Close() error                    { return nil }
func (c *fakeConn) Raw() interface{}                { return nil }
func (c *fakeConn) Config() adapter.ConnectionConfig {
	return adapter.ConnectionConfig{DatabaseID: dbcapabilities.SQLite}
}
func (c *fakeConn) Adapter() adapter.DatabaseAdapter       { return nil }
func (c *fakeConn) SchemaOperations() adapter.SchemaOperator { return &fakeSchema{conn: c} }
func (c *fakeConn) DataOperations() adapter.DataOperator     { return &fakeData{conn: c, label: "direct"} }

func (c *fakeConn) TransactionOperations() adapter.TransactionOperator {
	if !c.transactional {
		return adapter.NewUnsupportedTransactionOperator(dbcapabilities.MongoDB, "no replica set")
	}
	return &fakeTxOps{conn: c}
}

type fakeSchema struct{ conn *fakeConn }

func (s *fakeSchema) ListTables(ctx context.Context) ([]string, error) { return []string{"users"}, nil }
func (s *fakeSchema) ListColumns(ctx context.Context, table string) ([]adapter.ColumnMeta, error) {
	return s.conn.columns, nil
}
func (s *fakeSchema) ListPrimaryKeys(ctx context.Context, table string) ([]string, error) {
	return s.conn.primaryKeys, nil
}

type fakeData struct {
	conn  *fakeConn
	label string
}

func (d *fakeData) record(kind string) error {
	if d.conn.failOn == kind {
		return errors.New(kind + " failed")
	}
	d.conn.log = append(d.conn.log, fmt.Sprintf("%s:%s", d.label, kind))
	return nil
}

func (d *fakeData) Insert(ctx context.Context, table string, rows []map[string]interface{}) (int64, error) {
	if err := d.record("insert"); err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (d *fakeData) Update(ctx context.Context, table string, changes map[string]interface{}, where []adapter.Condition) (int64, error) {
	if err := d.record("update"); err != nil {
		return 0, err
	}
	return 1, nil
}

func (d *fakeData) Delete(ctx context.Context, table string, where []adapter.Condition) (int64, error) {
	if err := d.record("delete"); err != nil {
		return 0, err
	}
	return 1, nil
}

func (d *fakeData) Fetch(ctx context.Context, table string, limit int) ([]map[string]interface{}, error) {
	return d.conn.rows, nil
}

func (d *fakeData) Execute(ctx context.Context, command string) ([]map[string]interface{}, error) {
	return nil, nil
}

type fakeTxOps struct{ conn *fakeConn }

func (t *fakeTxOps) Begin(ctx context.Context) (adapter.Transaction, error) {
	t.conn.txBegun++
	return &fakeTx{fakeData{conn: t.conn, label: "tx"}}, nil
}

type fakeTx struct{ fakeData }

func (t *fakeTx) Commit(ctx context.Context) error {
	t.conn.txCommits++
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.conn.txRollback++
	return nil
}

func testEngine() *Engine {
	return NewEngine(zap.NewNop())
}

func TestEngineSaveRoundTrip(t *testing.T) {
	t.Run("no edits produce no writes and return the fetched rows", func(t *testing.T) {
		conn := newFakeConn(true)
		result, err := testEngine().Save(context.Background(), conn, "users",
			RowSnapshot{"row-0": conn.rows[0]}, EditBatch{})
		require.NoError(t, err)

		assert.Empty(t, conn.log)
		assert.Zero(t, conn.txBegun)
		assert.Equal(t, 0, result.Report.Total)
		assert.Equal(t, conn.rows, result.Rows)
	})
}

func TestEngineValidationBlocksWrites(t *testing.T) {
	conn := newFakeConn(true)
	batch := EditBatch{
		Modified: map[RowRef]map[string]interface{}{
			"row-0": {"name": ""},
		},
	}

	_, err := testEngine().Save(context.Background(), conn, "users",
		RowSnapshot{"row-0": conn.rows[0]}, batch)

	require.Error(t, err)
	assert.True(t, adapter.IsValidationError(err))
	assert.Empty(t, conn.log)
	assert.Zero(t, conn.txBegun)
}

func TestEngineTransactionalExecution(t *testing.T) {
	batch := EditBatch{
		Deleted: []RowRef{"row-0"},
		Modified: map[RowRef]map[string]interface{}{
			"row-1": {"email": "new@b"},
		},
		Inserted: map[RowRef]map[string]interface{}{
			"new-0": {"id": "", "name": "grace", "email": nil},
		},
	}
	snapshot := RowSnapshot{
		"row-0": {"id": 1, "name": "ada", "email": "a@b"},
		"row-1": {"id": 2, "name": "bob", "email": "b@b"},
	}

	t.Run("operations run inside one transaction in order", func(t *testing.T) {
		conn := newFakeConn(true)
		result, err := testEngine().Save(context.Background(), conn, "users", snapshot, batch)
		require.NoError(t, err)

		assert.Equal(t, []string{"tx:delete", "tx:update", "tx:insert"}, conn.log)
		assert.Equal(t, 1, conn.txBegun)
		assert.Equal(t, 1, conn.txCommits)
		assert.True(t, result.Report.Atomic)
		assert.Equal(t, 3, result.Report.Applied)
	})

	t.Run("failure rolls back and reports nothing applied", func(t *testing.T) {
		conn := newFakeConn(true)
		conn.failOn = "update"

		result, err := testEngine().Save(context.Background(), conn, "users", snapshot, batch)
		require.Error(t, err)

		assert.Nil(t, result)
		assert.Equal(t, 1, conn.txRollback)
		assert.Zero(t, conn.txCommits)
		assert.NotContains(t, conn.log, "tx:insert")
	})
}

func TestEngineSequentialFallback(t *testing.T) {
	batch := EditBatch{
		Deleted: []RowRef{"row-0"},
		Inserted: map[RowRef]map[string]interface{}{
			"new-0": {"id": "", "name": "grace", "email": nil},
		},
	}
	snapshot := RowSnapshot{
		"row-0": {"id": 1, "name": "ada", "email": "a@b"},
	}

	t.Run("unsupported transactions degrade to sequential writes", func(t *testing.T) {
		conn := newFakeConn(false)
		result, err := testEngine().Save(context.Background(), conn, "users", snapshot, batch)
		require.NoError(t, err)

		assert.Equal(t, []string{"direct:delete", "direct:insert"}, conn.log)
		assert.False(t, result.Report.Atomic)
		assert.Equal(t, 2, result.Report.Applied)
	})

	t.Run("mid-batch failure reports partial application", func(t *testing.T) {
		conn := newFakeConn(false)
		conn.failOn = "insert"

		result, err := testEngine().Save(context.Background(), conn, "users", snapshot, batch)
		require.Error(t, err)

		require.NotNil(t, result)
		assert.Equal(t, 1, result.Report.Applied)
		assert.Equal(t, 2, result.Report.Total)
		assert.NotEmpty(t, result.Report.Failed)
		assert.Contains(t, err.Error(), "after 1 of 2 operations")
	})
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// DataOps implements adapter.DataOperator for PostgreSQL.
type DataOps struct {
	conn *Connection
}

// Fetch retrieves data from a table.
func (d *DataOps) Fetch(ctx context.Context, table string, limit int) ([]map[string]interface{}, error) {
	data, err := FetchData(ctx, d.conn.pool, table, limit)
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.PostgreSQL, "fetch_data", err)
	}
	return data, nil
}

// Insert inserts rows into a table.
func (d *DataOps) Insert(ctx context.Context, table string, rows []map[string]interface{}) (int64, error) {
	count, err := InsertData(ctx, d.conn.pool, table, rows)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.PostgreSQL, "insert_data", err)
	}
	return count, nil
}

// Update updates rows matching the conditions.
func (d *DataOps) Update(ctx context.Context, table string, changes map[string]interface{}, where []adapter.Condition) (int64, error) {
	count, err := UpdateData(ctx, d.conn.pool, table, changes, where)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.PostgreSQL, "update_data", err)
	}
	return count, nil
}

// Delete removes rows matching the conditions.
func (d *DataOps) Delete(ctx context.Context, table string, where []adapter.Condition) (int64, error) {
	count, err := DeleteData(ctx, d.conn.pool, table, where)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.PostgreSQL, "delete_data", err)
	}
	return count, nil
}

// Execute runs a free-text SQL command verbatim.
func (d *DataOps) Execute(ctx context.Context, command string) ([]map[string]interface{}, error) {
	data, err := ExecuteQuery(ctx, d.conn.pool, command)
	if err != nil {
		return nil, adapter.NewQueryError(dbcapabilities.PostgreSQL, command, err)
	}
	return data, nil
}

// TxOps implements adapter.TransactionOperator for PostgreSQL.
type TxOps struct {
	conn *Connection
}

// Begin opens a transaction.
func (t *TxOps) Begin(ctx context.Context) (adapter.Transaction, error) {
	tx, err := t.conn.pool.Begin(ctx)
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.PostgreSQL, "begin_transaction", err)
	}
	return &Transaction{conn: t.conn, tx: tx}, nil
}

// Transaction implements adapter.Transaction for PostgreSQL.
type Transaction struct {
	conn *Connection
	tx   pgx.Tx
}

// Insert inserts rows within the transaction.
func (t *Transaction) Insert(ctx context.Context, table string, rows []map[string]interface{}) (int64, error) {
	count, err := InsertData(ctx, t.tx, table, rows)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.PostgreSQL, "insert_data", err)
	}
	return count, nil
}

// Update updates rows within the transaction.
func (t *Transaction) Update(ctx context.Context, table string, changes map[string]interface{}, where []adapter.Condition) (int64, error) {
	count, err := UpdateData(ctx, t.tx, table, changes, where)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.PostgreSQL, "update_data", err)
	}
	return count, nil
}

// Delete removes rows within the transaction.
func (t *Transaction) Delete(ctx context.Context, table string, where []adapter.Condition) (int64, error) {
	count, err := DeleteData(ctx, t.tx, table, where)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.PostgreSQL, "delete_data", err)
	}
	return count, nil
}

// Commit commits the transaction.
func (t *Transaction) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback aborts the transaction.
func (t *Transaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

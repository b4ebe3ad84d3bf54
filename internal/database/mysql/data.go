package mysql

import (
	"context"
	"database/sql"

	"github.com/gridbase/gridbase/internal/database/common"
	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// DataOps implements adapter.DataOperator for MySQL.
type DataOps struct {
	conn *Connection
}

// Fetch retrieves data from a table.
func (d *DataOps) Fetch(ctx context.Context, table string, limit int) ([]map[string]interface{}, error) {
	data, err := common.FetchRows(ctx, d.conn.db, d.conn.adapter.Capabilities(), table, limit)
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.MySQL, "fetch_data", err)
	}
	return data, nil
}

// Insert inserts rows into a table.
func (d *DataOps) Insert(ctx context.Context, table string, rows []map[string]interface{}) (int64, error) {
	count, err := common.InsertRows(ctx, d.conn.db, d.conn.adapter.Capabilities(), table, rows)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.MySQL, "insert_data", err)
	}
	return count, nil
}

// Update updates rows matching the conditions.
func (d *DataOps) Update(ctx context.Context, table string, changes map[string]interface{}, where []adapter.Condition) (int64, error) {
	count, err := common.UpdateRows(ctx, d.conn.db, d.conn.adapter.Capabilities(), table, changes, where)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.MySQL, "update_data", err)
	}
	return count, nil
}

// Delete removes rows matching the conditions.
func (d *DataOps) Delete(ctx context.Context, table string, where []adapter.Condition) (int64, error) {
	count, err := common.DeleteRows(ctx, d.conn.db, d.conn.adapter.Capabilities(), table, where)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.MySQL, "delete_data", err)
	}
	return count, nil
}

// Execute runs a free-text SQL command verbatim.
func (d *DataOps) Execute(ctx context.Context, command string) ([]map[string]interface{}, error) {
	data, err := common.ExecuteSQL(ctx, d.conn.db, command)
	if err != nil {
		return nil, adapter.NewQueryError(dbcapabilities.MySQL, command, err)
	}
	return data, nil
}

// TxOps implements adapter.TransactionOperator for MySQL.
type TxOps struct {
	conn *Connection
}

// Begin opens a transaction.
func (t *TxOps) Begin(ctx context.Context) (adapter.Transaction, error) {
	tx, err := t.conn.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.MySQL, "begin_transaction", err)
	}
	return &Transaction{conn: t.conn, tx: tx}, nil
}

// Transaction implements adapter.Transaction for MySQL.
type Transaction struct {
	conn *Connection
	tx   *sql.Tx
}

// Insert inserts rows within the transaction.
func (t *Transaction) Insert(ctx context.Context, table string, rows []map[string]interface{}) (int64, error) {
	count, err := common.InsertRows(ctx, t.tx, t.conn.adapter.Capabilities(), table, rows)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.MySQL, "insert_data", err)
	}
	return count, nil
}

// Update updates rows within the transaction.
func (t *Transaction) Update(ctx context.Context, table string, changes map[string]interface{}, where []adapter.Condition) (int64, error) {
	count, err := common.UpdateRows(ctx, t.tx, t.conn.adapter.Capabilities(), table, changes, where)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.MySQL, "update_data", err)
	}
	return count, nil
}

// Delete removes rows within the transaction.
func (t *Transaction) Delete(ctx context.Context, table string, where []adapter.Condition) (int64, error) {
	count, err := common.DeleteRows(ctx, t.tx, t.conn.adapter.Capabilities(), table, where)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.MySQL, "delete_data", err)
	}
	return count, nil
}

// Commit commits the transaction.
func (t *Transaction) Commit(ctx context.Context) error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *Transaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback()
}

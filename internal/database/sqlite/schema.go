package sqlite

import (
	"context"
	"fmt"

	"github.com/gridbase/gridbase/internal/database/common"
	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// SchemaOps implements adapter.SchemaOperator for SQLite.
type SchemaOps struct {
	conn *Connection
}

// ListTables returns all user tables, excluding SQLite's internal tables.
func (s *SchemaOps) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.conn.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.SQLite, "list_tables", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, adapter.WrapError(dbcapabilities.SQLite, "list_tables", err)
		}
		tables = append(tables, name)
	}

	return tables, rows.Err()
}

// ListColumns retrieves column metadata via PRAGMA table_info.
// Results are derived fresh on every call; nothing is cached.
func (s *SchemaOps) ListColumns(ctx context.Context, table string) ([]adapter.ColumnMeta, error) {
	columns, err := tableInfo(ctx, s.conn, table)
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.SQLite, "list_columns", err)
	}
	return columns, nil
}

// ListPrimaryKeys returns the primary key column names of a table.
func (s *SchemaOps) ListPrimaryKeys(ctx context.Context, table string) ([]string, error) {
	columns, err := tableInfo(ctx, s.conn, table)
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.SQLite, "list_primary_keys", err)
	}

	var keys []string
	for _, col := range columns {
		if col.IsPrimaryKey {
			keys = append(keys, col.Name)
		}
	}
	return keys, nil
}

// tableInfo runs PRAGMA table_info for a table. PRAGMA arguments cannot be
// bound, so the table name is embedded as a quoted identifier.
func tableInfo(ctx context.Context, conn *Connection, table string) ([]adapter.ColumnMeta, error) {
	if table == "" {
		return nil, fmt.Errorf("table name cannot be empty")
	}

	query := fmt.Sprintf("PRAGMA table_info(%s)", common.QuoteIdentifier(table, `"`))
	rows, err := conn.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []adapter.ColumnMeta
	for rows.Next() {
		var (
			cid       int
			name      string
			dataType  string
			notNull   int
			dfltValue interface{}
			pk        int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}

		columns = append(columns, adapter.ColumnMeta{
			Name:         name,
			DataType:     dataType,
			NotNull:      notNull != 0,
			IsPrimaryKey: pk > 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", adapter.ErrTableNotFound, table)
	}

	return columns, nil
}

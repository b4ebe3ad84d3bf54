package mysql

import (
	"context"
	"fmt"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// SchemaOps implements adapter.SchemaOperator for MySQL.
type SchemaOps struct {
	conn *Connection
}

// ListTables returns all base tables in the connected database.
func (s *SchemaOps) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.conn.db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.MySQL, "list_tables", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, adapter.WrapError(dbcapabilities.MySQL, "list_tables", err)
		}
		tables = append(tables, name)
	}

	return tables, rows.Err()
}

// ListColumns retrieves column metadata from information_schema.
// Results are derived fresh on every call; nothing is cached.
func (s *SchemaOps) ListColumns(ctx context.Context, table string) ([]adapter.ColumnMeta, error) {
	if table == "" {
		return nil, adapter.WrapError(dbcapabilities.MySQL, "list_columns",
			fmt.Errorf("table name cannot be empty"))
	}

	rows, err := s.conn.db.QueryContext(ctx, `
		SELECT column_name, data_type, is_nullable, column_key
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.MySQL, "list_columns", err)
	}
	defer rows.Close()

	var columns []adapter.ColumnMeta
	for rows.Next() {
		var name, dataType, nullable, key string
		if err := rows.Scan(&name, &dataType, &nullable, &key); err != nil {
			return nil, adapter.WrapError(dbcapabilities.MySQL, "list_columns", err)
		}

		columns = append(columns, adapter.ColumnMeta{
			Name:         name,
			DataType:     dataType,
			NotNull:      nullable == "NO",
			IsPrimaryKey: key == "PRI",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		return nil, adapter.WrapError(dbcapabilities.MySQL, "list_columns",
			fmt.Errorf("%w: %s", adapter.ErrTableNotFound, table))
	}

	return columns, nil
}

// ListPrimaryKeys returns the primary key column names of a table.
func (s *SchemaOps) ListPrimaryKeys(ctx context.Context, table string) ([]string, error) {
	rows, err := s.conn.db.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE() AND table_name = ? AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.MySQL, "list_primary_keys", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, adapter.WrapError(dbcapabilities.MySQL, "list_primary_keys", err)
		}
		keys = append(keys, name)
	}

	return keys, rows.Err()
}

package postgres

import (
	"context"
	"fmt"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// SchemaOps implements adapter.SchemaOperator for PostgreSQL.
type SchemaOps struct {
	conn *Connection
}

// ListTables returns all base tables in the connection's current schema.
func (s *SchemaOps) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.conn.pool.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.PostgreSQL, "list_tables", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, adapter.WrapError(dbcapabilities.PostgreSQL, "list_tables", err)
		}
		tables = append(tables, name)
	}

	return tables, rows.Err()
}

// ListColumns retrieves column metadata from information_schema, including
// primary key membership. Results are derived fresh on every call.
func (s *SchemaOps) ListColumns(ctx context.Context, table string) ([]adapter.ColumnMeta, error) {
	if table == "" {
		return nil, adapter.WrapError(dbcapabilities.PostgreSQL, "list_columns",
			fmt.Errorf("table name cannot be empty"))
	}

	rows, err := s.conn.pool.Query(ctx, `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable,
			(pk.column_name IS NOT NULL) AS is_primary_key
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT kcu.column_name
			FROM information_schema.key_column_usage kcu
			JOIN information_schema.table_constraints tc
				ON kcu.constraint_name = tc.constraint_name
				AND kcu.table_schema = tc.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_name = $1
				AND tc.table_schema = current_schema()
		) pk ON pk.column_name = c.column_name
		WHERE c.table_name = $1 AND c.table_schema = current_schema()
		ORDER BY c.ordinal_position`, table)
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.PostgreSQL, "list_columns", err)
	}
	defer rows.Close()

	var columns []adapter.ColumnMeta
	for rows.Next() {
		var (
			name, dataType, nullable string
			isPK                     bool
		)
		if err := rows.Scan(&name, &dataType, &nullable, &isPK); err != nil {
			return nil, adapter.WrapError(dbcapabilities.PostgreSQL, "list_columns", err)
		}

		columns = append(columns, adapter.ColumnMeta{
			Name:         name,
			DataType:     dataType,
			NotNull:      nullable == "NO",
			IsPrimaryKey: isPK,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		return nil, adapter.WrapError(dbcapabilities.PostgreSQL, "list_columns",
			fmt.Errorf("%w: %s", adapter.ErrTableNotFound, table))
	}

	return columns, nil
}

// ListPrimaryKeys returns the primary key column names of a table.
func (s *SchemaOps) ListPrimaryKeys(ctx context.Context, table string) ([]string, error) {
	rows, err := s.conn.pool.Query(ctx, `
		SELECT kcu.column_name
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.table_constraints tc
			ON kcu.constraint_name = tc.constraint_name
			AND kcu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_name = $1
			AND tc.table_schema = current_schema()
		ORDER BY kcu.ordinal_position`, table)
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.PostgreSQL, "list_primary_keys", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, adapter.WrapError(dbcapabilities.PostgreSQL, "list_primary_keys", err)
		}
		keys = append(keys, name)
	}

	return keys, rows.Err()
}

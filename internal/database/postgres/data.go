package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gridbase/gridbase/internal/database/common"
	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// executor abstracts *pgxpool.Pool and pgx.Tx so the same statement builders
// serve both direct and transactional application.
type executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// FetchData retrieves data from a specified table.
func FetchData(ctx context.Context, ex executor, tableName string, limit int) ([]map[string]interface{}, error) {
	if tableName == "" {
		return nil, fmt.Errorf("table name cannot be empty")
	}

	query := fmt.Sprintf("SELECT * FROM %s", common.QuoteIdentifier(tableName, `"`))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := ex.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying table %s: %v", tableName, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// scanRows drains a pgx result set into column-keyed maps.
func scanRows(rows pgx.Rows) ([]map[string]interface{}, error) {
	fields := rows.FieldDescriptions()

	var result []map[string]interface{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}

		entry := make(map[string]interface{}, len(fields))
		for i, fd := range fields {
			entry[fd.Name] = values[i]
		}
		result = append(result, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// InsertData inserts rows into a specified table, one statement per row so
// each row may carry its own column set.
func InsertData(ctx context.Context, ex executor, tableName string, data []map[string]interface{}) (int64, error) {
	if len(data) == 0 {
		return 0, nil
	}

	var total int64
	for _, row := range data {
		columns := common.SortedColumns(row)
		if len(columns) == 0 {
			continue
		}

		placeholders := make([]string, len(columns))
		values := make([]interface{}, len(columns))
		for i, col := range columns {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			values[i] = row[col]
		}

		query := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s)",
			common.QuoteIdentifier(tableName, `"`),
			strings.Join(common.QuoteIdentifiers(columns, `"`), ", "),
			strings.Join(placeholders, ", "),
		)

		tag, err := ex.Exec(ctx, query, values...)
		if err != nil {
			return total, err
		}
		total += tag.RowsAffected()
	}

	return total, nil
}

// UpdateData sets the given columns on every row matching all conditions.
func UpdateData(ctx context.Context, ex executor, tableName string, changes map[string]interface{}, where []adapter.Condition) (int64, error) {
	if len(changes) == 0 {
		return 0, nil
	}

	columns := common.SortedColumns(changes)
	setClause, setArgs := common.BuildSet(columns, changes, `"`, dbcapabilities.PlaceholderDollar)
	whereClause, whereArgs := common.BuildWhere(where, `"`, dbcapabilities.PlaceholderDollar, len(setArgs))

	query := fmt.Sprintf("UPDATE %s SET %s", common.QuoteIdentifier(tableName, `"`), setClause)
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	tag, err := ex.Exec(ctx, query, append(setArgs, whereArgs...)...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// DeleteData removes every row matching all conditions.
func DeleteData(ctx context.Context, ex executor, tableName string, where []adapter.Condition) (int64, error) {
	if len(where) == 0 {
		return 0, fmt.Errorf("refusing to delete from %s without conditions", tableName)
	}

	whereClause, whereArgs := common.BuildWhere(where, `"`, dbcapabilities.PlaceholderDollar, 0)
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", common.QuoteIdentifier(tableName, `"`), whereClause)

	tag, err := ex.Exec(ctx, query, whereArgs...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// ExecuteQuery runs a free-text SQL command verbatim. Statements without a
// result set report rows affected instead.
func ExecuteQuery(ctx context.Context, ex executor, command string) ([]map[string]interface{}, error) {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return nil, fmt.Errorf("empty command")
	}

	rows, err := ex.Query(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hasFields := len(rows.FieldDescriptions()) > 0
	result, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	if !hasFields {
		return []map[string]interface{}{
			{"rowsAffected": rows.CommandTag().RowsAffected()},
		}, nil
	}

	return result, nil
}

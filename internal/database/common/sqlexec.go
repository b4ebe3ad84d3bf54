package common

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// Execer abstracts *sql.DB and *sql.Tx for write statements, so the same
// builders serve both direct and transactional application.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Querier abstracts *sql.DB and *sql.Tx for reads.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// FetchRows retrieves up to limit rows from a table (limit <= 0 means no cap).
func FetchRows(ctx context.Context, q Querier, cap dbcapabilities.Capability, table string, limit int) ([]map[string]interface{}, error) {
	if table == "" {
		return nil, fmt.Errorf("table name cannot be empty")
	}

	query := fmt.Sprintf("SELECT * FROM %s", QuoteIdentifier(table, cap.IdentifierQuote))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying table %s: %v", table, err)
	}
	defer rows.Close()

	return ScanRows(rows)
}

// InsertRows inserts rows one statement at a time. Each row may carry a
// different column set (absent optional columns are simply not mentioned, so
// the backend can apply defaults or autogenerate keys).
func InsertRows(ctx context.Context, ex Execer, cap dbcapabilities.Capability, table string, rowSet []map[string]interface{}) (int64, error) {
	if len(rowSet) == 0 {
		return 0, nil
	}

	var total int64
	for _, row := range rowSet {
		columns := SortedColumns(row)
		if len(columns) == 0 {
			continue
		}

		placeholders := make([]string, len(columns))
		values := make([]interface{}, len(columns))
		for i, col := range columns {
			values[i] = row[col]
			if cap.Placeholders == dbcapabilities.PlaceholderDollar {
				placeholders[i] = fmt.Sprintf("$%d", i+1)
			} else {
				placeholders[i] = "?"
			}
		}

		query := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s)",
			QuoteIdentifier(table, cap.IdentifierQuote),
			strings.Join(QuoteIdentifiers(columns, cap.IdentifierQuote), ", "),
			strings.Join(placeholders, ", "),
		)

		result, err := ex.ExecContext(ctx, query, values...)
		if err != nil {
			return total, err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return total, err
		}
		total += affected
	}

	return total, nil
}

// UpdateRows sets the given columns on every row matching all conditions.
func UpdateRows(ctx context.Context, ex Execer, cap dbcapabilities.Capability, table string, changes map[string]interface{}, where []adapter.Condition) (int64, error) {
	if len(changes) == 0 {
		return 0, nil
	}

	columns := SortedColumns(changes)
	setClause, setArgs := BuildSet(columns, changes, cap.IdentifierQuote, cap.Placeholders)
	whereClause, whereArgs := BuildWhere(where, cap.IdentifierQuote, cap.Placeholders, len(setArgs))

	query := fmt.Sprintf("UPDATE %s SET %s", QuoteIdentifier(table, cap.IdentifierQuote), setClause)
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	result, err := ex.ExecContext(ctx, query, append(setArgs, whereArgs...)...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// DeleteRows removes every row matching all conditions. An empty condition
// list is rejected; a targeting predicate is always required.
func DeleteRows(ctx context.Context, ex Execer, cap dbcapabilities.Capability, table string, where []adapter.Condition) (int64, error) {
	if len(where) == 0 {
		return 0, fmt.Errorf("refusing to delete from %s without conditions", table)
	}

	whereClause, whereArgs := BuildWhere(where, cap.IdentifierQuote, cap.Placeholders, 0)
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", QuoteIdentifier(table, cap.IdentifierQuote), whereClause)

	result, err := ex.ExecContext(ctx, query, whereArgs...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// readVerbs are statement prefixes that produce a result set.
var readVerbs = []string{"select", "with", "pragma", "explain", "show", "describe", "desc"}

// ExecuteSQL runs a free-text SQL command verbatim. Statements that produce a
// result set are drained into rows; everything else reports rows affected.
func ExecuteSQL(ctx context.Context, db *sql.DB, command string) ([]map[string]interface{}, error) {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return nil, fmt.Errorf("empty command")
	}

	verb := strings.ToLower(trimmed)
	for _, rv := range readVerbs {
		if strings.HasPrefix(verb, rv) {
			rows, err := db.QueryContext(ctx, trimmed)
			if err != nil {
				return nil, err
			}
			defer rows.Close()
			return ScanRows(rows)
		}
	}

	result, err := db.ExecContext(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		affected = 0
	}
	return []map[string]interface{}{{"rowsAffected": affected}}, nil
}

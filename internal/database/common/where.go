package common

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// BuildWhere renders equality conditions as a WHERE body using the driver's
// placeholder style. IsNull conditions render as "col IS NULL" and bind no
// argument. argOffset is the number of placeholders already consumed by the
// statement (relevant for numbered placeholders only).
func BuildWhere(conds []adapter.Condition, quote string, style dbcapabilities.PlaceholderStyle, argOffset int) (string, []interface{}) {
	if len(conds) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(conds))
	args := make([]interface{}, 0, len(conds))

	for _, c := range conds {
		col := QuoteIdentifier(c.Column, quote)
		if c.IsNull {
			parts = append(parts, col+" IS NULL")
			continue
		}

		args = append(args, c.Value)
		switch style {
		case dbcapabilities.PlaceholderDollar:
			parts = append(parts, fmt.Sprintf("%s = $%d", col, argOffset+len(args)))
		default:
			parts = append(parts, col+" = ?")
		}
	}

	return strings.Join(parts, " AND "), args
}

// BuildSet renders an UPDATE SET body for the given columns in a stable
// order, using the driver's placeholder style. Returns the clause and the
// bound arguments.
func BuildSet(columns []string, changes map[string]interface{}, quote string, style dbcapabilities.PlaceholderStyle) (string, []interface{}) {
	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))

	for _, col := range columns {
		args = append(args, changes[col])
		quoted := QuoteIdentifier(col, quote)
		switch style {
		case dbcapabilities.PlaceholderDollar:
			parts = append(parts, fmt.Sprintf("%s = $%d", quoted, len(args)))
		default:
			parts = append(parts, quoted+" = ?")
		}
	}

	return strings.Join(parts, ", "), args
}

// SortedColumns returns the keys of a row map in a stable order so generated
// statements are deterministic.
func SortedColumns(row map[string]interface{}) []string {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

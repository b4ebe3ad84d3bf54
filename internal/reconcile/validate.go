package reconcile

import (
	"fmt"
	"sort"

	"github.com/gridbase/gridbase/internal/database/common"
	"github.com/gridbase/gridbase/pkg/adapter"
)

// Validate checks every modified and inserted row against the table's column
// constraints. Primary-key and not-null columns may never receive an
// empty/NULL value. All violations are collected; if any exist the whole
// batch is rejected and nothing is written.
func Validate(columns []adapter.ColumnMeta, batch EditBatch) error {
	var violations []string

	constrained := make([]adapter.ColumnMeta, 0, len(columns))
	for _, col := range columns {
		if col.IsPrimaryKey || col.NotNull {
			constrained = append(constrained, col)
		}
	}

	for _, ref := range sortedRefs(batch.Modified) {
		changes := batch.Modified[ref]
		for _, col := range constrained {
			value, changed := changes[col.Name]
			if changed && common.IsEmptyValue(value) {
				violations = append(violations, fmt.Sprintf(
					"row %s: column %q is %s and cannot be set to NULL",
					ref, col.Name, constraintName(col)))
			}
		}
	}

	for _, ref := range sortedRefs(batch.Inserted) {
		row := batch.Inserted[ref]
		for _, col := range constrained {
			// An empty primary key is allowed on insert: the column is
			// stripped so the backend can autogenerate the value.
			if col.IsPrimaryKey && common.IsEmptyValue(row[col.Name]) {
				continue
			}
			if common.IsEmptyValue(row[col.Name]) {
				violations = append(violations, fmt.Sprintf(
					"new row %s: column %q is %s and cannot be NULL",
					ref, col.Name, constraintName(col)))
			}
		}
	}

	if len(violations) > 0 {
		return adapter.NewValidationError(violations)
	}
	return nil
}

func constraintName(col adapter.ColumnMeta) string {
	if col.IsPrimaryKey {
		return "a primary key"
	}
	return "not-null"
}

func sortedRefs(rows map[RowRef]map[string]interface{}) []RowRef {
	refs := make([]RowRef, 0, len(rows))
	for ref := range rows {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

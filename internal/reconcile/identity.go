package reconcile

import (
	"fmt"

	"github.com/gridbase/gridbase/internal/database/common"
	"github.com/gridbase/gridbase/pkg/adapter"
)

// Identity is the predicate that targets one row for update or delete.
type Identity struct {
	Conditions []adapter.Condition
	// BestEffort is set when the table has no primary key and identity
	// degrades to full-row value equality. Two fully duplicate rows are
	// indistinguishable under this predicate.
	BestEffort bool
	// RowTag is the client-side row reference the predicate was derived
	// from. Tracking only; never sent to the backend.
	RowTag RowRef
}

// ResolveIdentity builds the identity predicate for a snapshot row.
//
// With a primary key the predicate is equality over exactly the key columns.
// A key value carrying the NULL sentinel is normalized to the empty string,
// since key columns are never NULL.
//
// Without a primary key the predicate is equality over every column's
// snapshot value, with IS NULL for empty values. Callers must treat the
// result as match-by-value: it can match more than one physical row.
func ResolveIdentity(columns []adapter.ColumnMeta, primaryKeys []string, ref RowRef, row map[string]interface{}) (Identity, error) {
	if len(primaryKeys) > 0 {
		conds := make([]adapter.Condition, 0, len(primaryKeys))
		for _, key := range primaryKeys {
			value, ok := row[key]
			if !ok {
				return Identity{}, fmt.Errorf("row %s is missing primary key column %q", ref, key)
			}
			if s, isString := value.(string); isString && s == common.NullSentinel {
				value = ""
			}
			conds = append(conds, adapter.Condition{Column: key, Value: value})
		}
		return Identity{Conditions: conds, RowTag: ref}, nil
	}

	conds := make([]adapter.Condition, 0, len(columns))
	for _, col := range columns {
		value := row[col.Name]
		if common.IsEmptyValue(value) {
			conds = append(conds, adapter.Condition{Column: col.Name, IsNull: true})
			continue
		}
		conds = append(conds, adapter.Condition{Column: col.Name, Value: value})
	}
	if len(conds) == 0 {
		return Identity{}, fmt.Errorf("row %s has no columns to match on", ref)
	}
	return Identity{Conditions: conds, BestEffort: true, RowTag: ref}, nil
}

package reconcile

import (
	"fmt"

	"github.com/gridbase/gridbase/internal/database/common"
	"github.com/gridbase/gridbase/pkg/adapter"
)

// WriteOperation is one backend write produced from the edit batch.
type WriteOperation struct {
	Kind     OperationKind
	Table    string
	Identity Identity
	// Changes holds the new column values for updates.
	Changes map[string]interface{}
	// Values holds the full row for inserts. Empty primary-key columns are
	// already stripped; empty optional columns carry nil so the backend
	// writes NULL.
	Values map[string]interface{}
	// OriginalRow is the snapshot row a delete was derived from, for
	// backends that need full-row predicates.
	OriginalRow map[string]interface{}
}

// BuildOperations converts a validated edit batch into the ordered operation
// list: deletes first, then updates, then inserts. The returned bestEffort
// flag is set when any identity predicate degraded to match-by-value.
func BuildOperations(table string, columns []adapter.ColumnMeta, primaryKeys []string, snapshot RowSnapshot, batch EditBatch) ([]WriteOperation, bool, error) {
	ops := make([]WriteOperation, 0, len(batch.Deleted)+len(batch.Modified)+len(batch.Inserted))
	bestEffort := false

	for _, ref := range batch.Deleted {
		original, ok := snapshot[ref]
		if !ok {
			return nil, false, fmt.Errorf("deleted row %s is not in the snapshot", ref)
		}
		identity, err := ResolveIdentity(columns, primaryKeys, ref, original)
		if err != nil {
			return nil, false, err
		}
		bestEffort = bestEffort || identity.BestEffort
		ops = append(ops, WriteOperation{
			Kind:        OpDelete,
			Table:       table,
			Identity:    identity,
			OriginalRow: original,
		})
	}

	for _, ref := range sortedRefs(batch.Modified) {
		original, ok := snapshot[ref]
		if !ok {
			return nil, false, fmt.Errorf("modified row %s is not in the snapshot", ref)
		}
		identity, err := ResolveIdentity(columns, primaryKeys, ref, original)
		if err != nil {
			return nil, false, err
		}
		bestEffort = bestEffort || identity.BestEffort

		changes := make(map[string]interface{}, len(batch.Modified[ref]))
		for column, value := range batch.Modified[ref] {
			if common.IsEmptyValue(value) {
				value = nil
			}
			changes[column] = value
		}
		ops = append(ops, WriteOperation{
			Kind:     OpUpdate,
			Table:    table,
			Identity: identity,
			Changes:  changes,
		})
	}

	isPrimaryKey := make(map[string]bool, len(primaryKeys))
	for _, key := range primaryKeys {
		isPrimaryKey[key] = true
	}
	for _, ref := range sortedRefs(batch.Inserted) {
		row := batch.Inserted[ref]
		values := make(map[string]interface{}, len(row))
		for column, value := range row {
			if common.IsEmptyValue(value) {
				// Stripped so the backend autogenerates the key.
				if isPrimaryKey[column] {
					continue
				}
				value = nil
			}
			values[column] = value
		}
		ops = append(ops, WriteOperation{
			Kind:   OpInsert,
			Table:  table,
			Values: values,
		})
	}

	return ops, bestEffort, nil
}

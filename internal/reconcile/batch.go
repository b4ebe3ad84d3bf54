// Package reconcile turns client-side grid edits into ordered backend write
// operations and applies them against one table.
package reconcile

// RowRef is an ephemeral client-side row reference, valid for the lifetime
// of one edit session. It is never sent to the backend.
type RowRef = string

// RowSnapshot holds the original field values of every fetched row, keyed by
// row reference. Captured at fetch time, held for one edit session.
type RowSnapshot map[RowRef]map[string]interface{}

// EditBatch is one save round-trip worth of edits, referenced against the
// snapshot they were captured from. It is never persisted.
type EditBatch struct {
	// Modified maps a row reference to only the columns that changed.
	Modified map[RowRef]map[string]interface{} `json:"modifiedData"`
	// Deleted lists rows marked for deletion.
	Deleted []RowRef `json:"deletedRows"`
	// Inserted maps a new row reference to its full field values.
	Inserted map[RowRef]map[string]interface{} `json:"newRows"`
}

// Empty reports whether the batch carries no edits at all.
func (b EditBatch) Empty() bool {
	return len(b.Modified) == 0 && len(b.Deleted) == 0 && len(b.Inserted) == 0
}

// OperationKind tags a write operation variant.
type OperationKind string

const (
	OpDelete OperationKind = "delete"
	OpUpdate OperationKind = "update"
	OpInsert OperationKind = "insert"
)

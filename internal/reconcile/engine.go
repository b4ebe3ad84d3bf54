package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gridbase/gridbase/pkg/adapter"
)

// DefaultPageSize bounds the refreshed row set returned after a save.
const DefaultPageSize = 1000

// Report describes how a batch was applied.
type Report struct {
	// Atomic is true when the operations ran inside a transaction.
	Atomic bool
	// Applied counts operations that reached the backend successfully.
	Applied int
	// Total is the number of operations the batch produced.
	Total int
	// Failed describes the first failing operation on the non-atomic path,
	// empty when everything applied. Already-applied operations are not
	// undone on that path.
	Failed string
	// BestEffort is true when row identity degraded to match-by-value
	// because the table has no primary key.
	BestEffort bool
}

// Result is the outcome of one save cycle: the execution report plus the
// refreshed row set that becomes the caller's new baseline.
type Result struct {
	Report Report
	Rows   []map[string]interface{}
}

// Engine runs save cycles: validate, build operations, execute in order,
// refresh. One cycle per table at a time; callers serialize concurrent saves.
type Engine struct {
	logger *zap.Logger
}

// NewEngine returns a reconciliation engine.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Save applies the edit batch against the table and returns the refreshed
// row set. Validation failures reject the whole batch before any write. On
// backends with transactions the operations are atomic; elsewhere they apply
// sequentially and the report records how far execution got.
func (e *Engine) Save(ctx context.Context, conn adapter.Connection, table string, snapshot RowSnapshot, batch EditBatch) (*Result, error) {
	schema := conn.SchemaOperations()
	columns, err := schema.ListColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	primaryKeys, err := schema.ListPrimaryKeys(ctx, table)
	if err != nil {
		return nil, err
	}

	if err := Validate(columns, batch); err != nil {
		return nil, err
	}

	ops, bestEffort, err := BuildOperations(table, columns, primaryKeys, snapshot, batch)
	if err != nil {
		return nil, err
	}
	if bestEffort {
		e.logger.Warn("table has no primary key, row identity is match-by-value",
			zap.String("table", table),
			zap.String("database_type", string(conn.Type())))
	}

	report := Report{Total: len(ops), BestEffort: bestEffort}
	if len(ops) > 0 {
		report, err = e.execute(ctx, conn, ops, report)
		if err != nil {
			if report.Applied > 0 {
				return &Result{Report: report}, err
			}
			return nil, err
		}
	}

	rows, err := conn.DataOperations().Fetch(ctx, table, DefaultPageSize)
	if err != nil {
		return nil, err
	}

	e.logger.Info("save cycle complete",
		zap.String("table", table),
		zap.Int("operations", report.Applied),
		zap.Bool("atomic", report.Atomic))
	return &Result{Report: report, Rows: rows}, nil
}

// execute runs the operation list, inside one transaction when the backend
// supports it, otherwise sequentially with partial application reported.
func (e *Engine) execute(ctx context.Context, conn adapter.Connection, ops []WriteOperation, report Report) (Report, error) {
	tx, err := conn.TransactionOperations().Begin(ctx)
	if err != nil {
		if !adapter.IsUnsupported(err) {
			return report, err
		}
		return e.executeSequential(ctx, conn.DataOperations(), ops, report)
	}

	report.Atomic = true
	for _, op := range ops {
		if err := applyOperation(ctx, tx, op); err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				e.logger.Warn("rollback failed", zap.Error(rbErr))
			}
			report.Applied = 0
			return report, fmt.Errorf("%s on %s: %w", op.Kind, op.Table, err)
		}
		report.Applied++
	}
	if err := tx.Commit(ctx); err != nil {
		report.Applied = 0
		return report, fmt.Errorf("commit: %w", err)
	}
	return report, nil
}

func (e *Engine) executeSequential(ctx context.Context, writer adapter.Writer, ops []WriteOperation, report Report) (Report, error) {
	for _, op := range ops {
		if err := applyOperation(ctx, writer, op); err != nil {
			report.Failed = fmt.Sprintf("%s on %s (row %s)", op.Kind, op.Table, op.Identity.RowTag)
			return report, fmt.Errorf("%s on %s after %d of %d operations applied: %w",
				op.Kind, op.Table, report.Applied, report.Total, err)
		}
		report.Applied++
	}
	return report, nil
}

func applyOperation(ctx context.Context, writer adapter.Writer, op WriteOperation) error {
	switch op.Kind {
	case OpDelete:
		_, err := writer.Delete(ctx, op.Table, op.Identity.Conditions)
		return err
	case OpUpdate:
		_, err := writer.Update(ctx, op.Table, op.Changes, op.Identity.Conditions)
		return err
	case OpInsert:
		_, err := writer.Insert(ctx, op.Table, []map[string]interface{}{op.Values})
		return err
	}
	return fmt.Errorf("unknown operation kind %q", op.Kind)
}

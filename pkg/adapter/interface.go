// Package adapter provides the unified interface for all database adapters.
// This package defines the contracts that database-specific implementations must follow.
package adapter

import (
	"context"

	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// DatabaseAdapter represents a database technology adapter.
// Each backend (PostgreSQL, MySQL, SQLite, MongoDB) must implement this interface.
type DatabaseAdapter interface {
	// Type returns the canonical database type identifier
	Type() dbcapabilities.DatabaseID

	// Capabilities returns the capability metadata for this database type
	Capabilities() dbcapabilities.Capability

	// Connect establishes a connection to a specific database
	Connect(ctx context.Context, config ConnectionConfig) (Connection, error)
}

// Connection represents an active connection to a specific database.
// This is the main interface for interacting with a database.
type Connection interface {
	// Identity and status
	ID() string
	Type() dbcapabilities.DatabaseID
	IsConnected() bool

	// Lifecycle management
	Ping(ctx context.Context) error
	Close() error

	// Operation interfaces
	SchemaOperations() SchemaOperator
	DataOperations() DataOperator
	TransactionOperations() TransactionOperator

	// Raw returns the underlying database-specific connection object.
	// Use this only when you need to perform operations not covered by the
	// standard interfaces. Type assertion is required when using Raw().
	Raw() interface{}

	// Configuration
	Config() ConnectionConfig
	Adapter() DatabaseAdapter
}

// ColumnMeta describes one column (or inferred document field) of a table.
type ColumnMeta struct {
	Name         string `json:"name"`
	DataType     string `json:"dataType,omitempty"`
	NotNull      bool   `json:"notNull"`
	IsPrimaryKey bool   `json:"isPrimaryKey"`
}

// Condition targets rows by column equality. IsNull selects rows where the
// column is NULL (or the field is absent, for document stores); Value is
// ignored when IsNull is set.
type Condition struct {
	Column string      `json:"column"`
	Value  interface{} `json:"value,omitempty"`
	IsNull bool        `json:"isNull,omitempty"`
}

// SchemaOperator handles schema introspection.
// Results are derived per call and never cached; the table may have changed
// since the last look.
type SchemaOperator interface {
	// ListTables returns the names of all tables/collections in the database
	ListTables(ctx context.Context) ([]string, error)

	// ListColumns retrieves column metadata for a specific table/collection.
	// Document stores infer fields by sampling a single document.
	ListColumns(ctx context.Context, table string) ([]ColumnMeta, error)

	// ListPrimaryKeys returns the primary key column names of a table.
	// Document stores report their identifier field.
	ListPrimaryKeys(ctx context.Context, table string) ([]string, error)
}

// Writer is the set of write operations shared by DataOperator and
// Transaction. The reconciliation engine issues its delete/update/insert
// batch through whichever of the two the backend provides.
type Writer interface {
	// Insert adds rows to a table. Returns the number of rows inserted.
	Insert(ctx context.Context, table string, rows []map[string]interface{}) (int64, error)

	// Update sets the given columns on every row matching all conditions.
	Update(ctx context.Context, table string, changes map[string]interface{}, where []Condition) (int64, error)

	// Delete removes every row matching all conditions.
	Delete(ctx context.Context, table string, where []Condition) (int64, error)
}

// DataOperator handles data access for one connection.
type DataOperator interface {
	Writer

	// Fetch retrieves up to limit rows from a table (limit <= 0 means no cap).
	Fetch(ctx context.Context, table string, limit int) ([]map[string]interface{}, error)

	// Execute runs a free-text command. Relational backends run it verbatim
	// as SQL; the document backend accepts the collection.operation(args)
	// grammar and dispatches to the matching native call.
	Execute(ctx context.Context, command string) ([]map[string]interface{}, error)
}

// TransactionOperator opens transactions on backends that have them.
// Begin returns ErrOperationNotSupported where atomic write batches are not
// available; callers then fall back to applying writes sequentially.
type TransactionOperator interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction is an open transaction. Writes issued through it become
// visible on Commit and are discarded on Rollback.
type Transaction interface {
	Writer

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

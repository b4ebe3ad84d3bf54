// Package adapter provides the unified interface for all database adapters.
//
// This package defines the contracts that database-specific implementations
// must follow, enabling a consistent way to interact with any backend while
// respecting their unique characteristics.
//
// # Architecture
//
//   - DatabaseAdapter: the main interface that all backend adapters implement
//   - Connection: an active database connection with operation interfaces
//   - Operation interfaces: SchemaOperator, DataOperator, TransactionOperator
//   - Registry: manages adapter registration and retrieval
//
// # Usage
//
// Construct a registry and register the adapters the process supports:
//
//	reg := adapter.NewRegistry()
//	reg.Register(postgres.NewAdapter())
//	reg.Register(sqlite.NewAdapter())
//
// Then connect to a database:
//
//	config := adapter.ConnectionConfig{
//	    DatabaseID:     "my-db",
//	    ConnectionType: "postgres",
//	    Host:           "localhost",
//	    Port:           5432,
//	    DatabaseName:   "myapp",
//	    Username:       "user",
//	    Password:       "pass",
//	}
//
//	conn, err := reg.Connect(ctx, config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
// Perform operations through the connection:
//
//	tables, err := conn.SchemaOperations().ListTables(ctx)
//	rows, err := conn.DataOperations().Fetch(ctx, "users", 100)
//
// Operation interfaces that a backend cannot honor return errors satisfying
// errors.Is(err, adapter.ErrOperationNotSupported); use adapter.IsUnsupported
// to branch on degraded behavior instead of type assertions.
package adapter

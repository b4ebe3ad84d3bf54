package postgres

import (
	"context"
	"sync/atomic"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// Connection implements adapter.Connection for PostgreSQL.
type Connection struct {
	id        string
	pool      *pgxpool.Pool
	config    adapter.ConnectionConfig
	adapter   *Adapter
	connected int32
}

// ID returns the connection identifier.
func (c *Connection) ID() string {
	return c.id
}

// Type returns the database type.
func (c *Connection) Type() dbcapabilities.DatabaseID {
	return dbcapabilities.PostgreSQL
}

// IsConnected returns whether the connection is active.
func (c *Connection) IsConnected() bool {
	return atomic.LoadInt32(&c.connected) == 1
}

// Ping checks if the connection is alive.
func (c *Connection) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close closes the connection.
func (c *Connection) Close() error {
	atomic.StoreInt32(&c.connected, 0)
	c.pool.Close()
	return nil
}

// SchemaOperations returns the schema operator for PostgreSQL.
func (c *Connection) SchemaOperations() adapter.SchemaOperator {
	return &SchemaOps{conn: c}
}

// DataOperations returns the data operator for PostgreSQL.
func (c *Connection) DataOperations() adapter.DataOperator {
	return &DataOps{conn: c}
}

// TransactionOperations returns the transaction operator for PostgreSQL.
func (c *Connection) TransactionOperations() adapter.TransactionOperator {
	return &TxOps{conn: c}
}

// Raw returns the underlying pgxpool.Pool.
func (c *Connection) Raw() interface{} {
	return c.pool
}

// Config returns the connection configuration.
func (c *Connection) Config() adapter.ConnectionConfig {
	return c.config
}

// Adapter returns the database adapter.
func (c *Connection) Adapter() adapter.DatabaseAdapter {
	return c.adapter
}

package mongodb

import (
	"context"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// Connection implements adapter.Connection for MongoDB.
type Connection struct {
	id        string
	client    *mongo.Client
	db        *mongo.Database
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
	return dbcapabilities.MongoDB
}

// IsConnected returns whether the connection is active.
func (c *Connection) IsConnected() bool {
	return atomic.LoadInt32(&c.connected) == 1
}

// Ping checks if the connection is alive.
func (c *Connection) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close closes the connection.
func (c *Connection) Close() error {
	atomic.StoreInt32(&c.connected, 0)
	return c.client.Disconnect(context.Background())
}

// SchemaOperations returns the schema operator for MongoDB.
func (c *Connection) SchemaOperations() adapter.SchemaOperator {
	return &SchemaOps{conn: c}
}

// DataOperations returns the data operator for MongoDB.
func (c *Connection) DataOperations() adapter.DataOperator {
	return &DataOps{conn: c}
}

// TransactionOperations reports that atomic write batches are unavailable.
// Standalone servers reject multi-document transactions, so write batches
// degrade to sequential application with a partial-result report.
func (c *Connection) TransactionOperations() adapter.TransactionOperator {
	return adapter.NewUnsupportedTransactionOperator(
		dbcapabilities.MongoDB,
		"multi-document transactions require a replica set",
	)
}

// Raw returns the underlying *mongo.Database.
func (c *Connection) Raw() interface{} {
	return c.db
}

// Config returns the connection configuration.
func (c *Connection) Config() adapter.ConnectionConfig {
	return c.config
}

// Adapter returns the database adapter.
func (c *Connection) Adapter() adapter.DatabaseAdapter {
	return c.adapter
}

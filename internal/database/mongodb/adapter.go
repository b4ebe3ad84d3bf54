package mongodb

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// Adapter implements the adapter.DatabaseAdapter interface for MongoDB.
type Adapter struct{}

// NewAdapter creates a new MongoDB adapter.
func NewAdapter() adapter.DatabaseAdapter {
	return &Adapter{}
}

// Type returns the database type identifier.
func (a *Adapter) Type() dbcapabilities.DatabaseID {
	return dbcapabilities.MongoDB
}

// Capabilities returns the capabilities metadata for MongoDB.
func (a *Adapter) Capabilities() dbcapabilities.Capability {
	return dbcapabilities.MustGet(dbcapabilities.MongoDB)
}

// Connect establishes a connection to a MongoDB database.
func (a *Adapter) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	connString := config.ConnectionString
	if connString == "" {
		if err := validateConfig(config); err != nil {
			return nil, err
		}

		port := config.Port
		if port == 0 {
			port = a.Capabilities().DefaultPort
		}

		var b strings.Builder
		if config.Username != "" {
			fmt.Fprintf(&b, "mongodb://%s:%s@%s:%d/%s?authSource=admin",
				config.Username,
				config.Password,
				config.Host,
				port,
				config.DatabaseName)
		} else {
			fmt.Fprintf(&b, "mongodb://%s:%d/%s?authSource=admin",
				config.Host,
				port,
				config.DatabaseName)
		}
		fmt.Fprintf(&b, "&tls=%t", config.SSL)
		connString = b.String()
	}

	clientOptions := options.Client().ApplyURI(connString)

	// In v2, Connect handles both creation and connection
	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, adapter.NewConnectionError(
			dbcapabilities.MongoDB,
			config.Host,
			fmt.Errorf("error connecting to database: %w", err),
		)
	}

	// Test the connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, adapter.NewConnectionError(
			dbcapabilities.MongoDB,
			config.Host,
			fmt.Errorf("error pinging database: %w", err),
		)
	}

	conn := &Connection{
		id:        config.Name,
		client:    client,
		db:        client.Database(config.DatabaseName),
		config:    config,
		adapter:   a,
		connected: 1,
	}

	return conn, nil
}

// validateConfig surfaces missing required fields before any I/O.
func validateConfig(config adapter.ConnectionConfig) error {
	if config.Host == "" {
		return adapter.NewConfigurationError(dbcapabilities.MongoDB, "host", "host is required")
	}
	if config.DatabaseName == "" {
		return adapter.NewConfigurationError(dbcapabilities.MongoDB, "databaseName", "database name is required")
	}
	return nil
}

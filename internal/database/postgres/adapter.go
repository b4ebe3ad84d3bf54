package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// Adapter implements the adapter.DatabaseAdapter interface for PostgreSQL.
type Adapter struct{}

// NewAdapter creates a new PostgreSQL adapter.
func NewAdapter() adapter.DatabaseAdapter {
	return &Adapter{}
}

// Type returns the database type identifier.
func (a *Adapter) Type() dbcapabilities.DatabaseID {
	return dbcapabilities.PostgreSQL
}

// Capabilities returns the capabilities metadata for PostgreSQL.
func (a *Adapter) Capabilities() dbcapabilities.Capability {
	return dbcapabilities.MustGet(dbcapabilities.PostgreSQL)
}

// Connect establishes a connection to a PostgreSQL database.
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
		fmt.Fprintf(&b, "postgres://%s:%s@%s:%d/%s",
			config.Username,
			config.Password,
			config.Host,
			port,
			config.DatabaseName)

		if config.SSL {
			sslMode := config.SSLMode
			if sslMode == "" {
				sslMode = "require"
			}
			fmt.Fprintf(&b, "?sslmode=%s", sslMode)
		} else {
			b.WriteString("?sslmode=disable")
		}
		connString = b.String()
	}

	// Create connection pool
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, adapter.NewConnectionError(
			dbcapabilities.PostgreSQL,
			fmt.Sprintf("%s:%d", config.Host, config.Port),
			fmt.Errorf("error connecting to database: %w", err),
		)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, adapter.NewConnectionError(
			dbcapabilities.PostgreSQL,
			fmt.Sprintf("%s:%d", config.Host, config.Port),
			fmt.Errorf("error pinging database: %w", err),
		)
	}

	conn := &Connection{
		id:        config.Name,
		pool:      pool,
		config:    config,
		adapter:   a,
		connected: 1,
	}

	return conn, nil
}

// validateConfig surfaces missing required fields before any I/O.
func validateConfig(config adapter.ConnectionConfig) error {
	if config.Host == "" {
		return adapter.NewConfigurationError(dbcapabilities.PostgreSQL, "host", "host is required")
	}
	if config.Username == "" {
		return adapter.NewConfigurationError(dbcapabilities.PostgreSQL, "username", "username is required")
	}
	if config.DatabaseName == "" {
		return adapter.NewConfigurationError(dbcapabilities.PostgreSQL, "databaseName", "database name is required")
	}
	return nil
}

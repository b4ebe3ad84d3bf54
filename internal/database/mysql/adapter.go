package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// Adapter implements the adapter.DatabaseAdapter interface for MySQL.
type Adapter struct{}

// NewAdapter creates a new MySQL adapter.
func NewAdapter() adapter.DatabaseAdapter {
	return &Adapter{}
}

// Type returns the database type identifier.
func (a *Adapter) Type() dbcapabilities.DatabaseID {
	return dbcapabilities.MySQL
}

// Capabilities returns the capabilities metadata for MySQL.
func (a *Adapter) Capabilities() dbcapabilities.Capability {
	return dbcapabilities.MustGet(dbcapabilities.MySQL)
}

// Connect establishes a connection to a MySQL database.
func (a *Adapter) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	port := config.Port
	if port == 0 {
		port = a.Capabilities().DefaultPort
	}

	var tlsMode string
	if config.SSL {
		tlsMode = "true"
	} else {
		tlsMode = "false"
	}

	// Build the connection string
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?tls=%s&parseTime=true",
		config.Username, config.Password, config.Host, port, config.DatabaseName, tlsMode)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, adapter.NewConnectionError(
			dbcapabilities.MySQL,
			fmt.Sprintf("%s:%d", config.Host, port),
			fmt.Errorf("failed to open MySQL connection: %w", err),
		)
	}

	// One shared connection per profile.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, adapter.NewConnectionError(
			dbcapabilities.MySQL,
			fmt.Sprintf("%s:%d", config.Host, port),
			fmt.Errorf("error pinging database: %w", err),
		)
	}

	conn := &Connection{
		id:        config.Name,
		db:        db,
		config:    config,
		adapter:   a,
		connected: 1,
	}

	return conn, nil
}

// validateConfig surfaces missing required fields before any I/O.
func validateConfig(config adapter.ConnectionConfig) error {
	if config.Host == "" {
		return adapter.NewConfigurationError(dbcapabilities.MySQL, "host", "host is required")
	}
	if config.Username == "" {
		return adapter.NewConfigurationError(dbcapabilities.MySQL, "username", "username is required")
	}
	if config.DatabaseName == "" {
		return adapter.NewConfigurationError(dbcapabilities.MySQL, "databaseName", "database name is required")
	}
	return nil
}

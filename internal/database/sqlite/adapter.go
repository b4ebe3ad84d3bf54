package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// Adapter implements the adapter.DatabaseAdapter interface for SQLite.
type Adapter struct{}

// NewAdapter creates a new SQLite adapter.
func NewAdapter() adapter.DatabaseAdapter {
	return &Adapter{}
}

// Type returns the database type identifier.
func (a *Adapter) Type() dbcapabilities.DatabaseID {
	return dbcapabilities.SQLite
}

// Capabilities returns the capabilities metadata for SQLite.
func (a *Adapter) Capabilities() dbcapabilities.Capability {
	return dbcapabilities.MustGet(dbcapabilities.SQLite)
}

// Connect opens a SQLite database file.
func (a *Adapter) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	path := config.FilePath
	if path == "" {
		path = config.ConnectionString
	}
	if path == "" {
		return nil, adapter.NewConfigurationError(
			dbcapabilities.SQLite,
			"filePath",
			"database file path is required",
		)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, adapter.NewConnectionError(
			dbcapabilities.SQLite,
			path,
			fmt.Errorf("error opening database file: %w", err),
		)
	}

	// One shared connection per profile; SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, adapter.NewConnectionError(
			dbcapabilities.SQLite,
			path,
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

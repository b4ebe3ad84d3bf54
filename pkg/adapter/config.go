package adapter

import (
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// ConnectionConfig contains the configuration for a database connection.
// This is a unified configuration that works across all backend types.
type ConnectionConfig struct {
	// Core identifiers
	DatabaseID dbcapabilities.DatabaseID `json:"databaseId"`

	// Connection metadata
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	// Database type name or alias, resolved when DatabaseID is unset.
	ConnectionType string `json:"connectionType,omitempty"`

	// Network backends
	Host         string `json:"host,omitempty"`
	Port         int    `json:"port,omitempty"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	DatabaseName string `json:"databaseName,omitempty"`

	// File backends (SQLite)
	FilePath string `json:"filePath,omitempty"`

	// Full connection string; when set it wins over the host/port fields.
	ConnectionString string `json:"connectionString,omitempty"`

	// SSL/TLS configuration
	SSL     bool   `json:"ssl,omitempty"`
	SSLMode string `json:"sslMode,omitempty"` // verify-full, require, etc.

	// Database-specific options (use sparingly)
	Options map[string]interface{} `json:"options,omitempty"`
}

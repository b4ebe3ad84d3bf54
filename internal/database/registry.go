// Package database wires the per-backend adapters into a single registry.
package database

import (
	"github.com/gridbase/gridbase/internal/database/mongodb"
	"github.com/gridbase/gridbase/internal/database/mysql"
	"github.com/gridbase/gridbase/internal/database/postgres"
	"github.com/gridbase/gridbase/internal/database/sqlite"
	"github.com/gridbase/gridbase/pkg/adapter"
)

// NewRegistry returns an adapter registry with every supported backend
// registered. Callers inject it wherever connections are made; there is no
// package-level default.
func NewRegistry() *adapter.Registry {
	reg := adapter.NewRegistry()
	reg.Register(postgres.NewAdapter())
	reg.Register(mysql.NewAdapter())
	reg.Register(sqlite.NewAdapter())
	reg.Register(mongodb.NewAdapter())
	return reg
}

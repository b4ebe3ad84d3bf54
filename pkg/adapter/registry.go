package adapter

import (
	"context"
	"fmt"
	"sync"

	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// Registry manages the registration and retrieval of database adapters.
// It is constructed at startup and injected into the services that need it.
type Registry struct {
	adapters map[dbcapabilities.DatabaseID]DatabaseAdapter
	mu       sync.RWMutex
}

// NewRegistry creates a new adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[dbcapabilities.DatabaseID]DatabaseAdapter),
	}
}

// Register registers a database adapter.
// If an adapter for the same database type is already registered, it will be replaced.
func (r *Registry) Register(adapter DatabaseAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.adapters[adapter.Type()] = adapter
}

// Get retrieves a registered adapter by database type.
// Returns ErrAdapterNotFound if the adapter is not registered.
func (r *Registry) Get(dbType dbcapabilities.DatabaseID) (DatabaseAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.adapters[dbType]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrAdapterNotFound, dbType)
	}

	return adapter, nil
}

// GetByName retrieves a registered adapter by database name or alias.
// Returns ErrAdapterNotFound if the adapter is not registered.
func (r *Registry) GetByName(name string) (DatabaseAdapter, error) {
	dbType, ok := dbcapabilities.ParseID(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown database type '%s'", ErrAdapterNotFound, name)
	}

	return r.Get(dbType)
}

// IsRegistered checks if an adapter is registered for the given database type.
func (r *Registry) IsRegistered(dbType dbcapabilities.DatabaseID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.adapters[dbType]
	return exists
}

// ListRegistered returns a list of all registered database types.
func (r *Registry) ListRegistered() []dbcapabilities.DatabaseID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]dbcapabilities.DatabaseID, 0, len(r.adapters))
	for dbType := range r.adapters {
		types = append(types, dbType)
	}

	return types
}

// Connect creates a new database connection using the registered adapter.
func (r *Registry) Connect(ctx context.Context, config ConnectionConfig) (Connection, error) {
	dbType := config.DatabaseID
	if dbType == "" {
		parsed, ok := dbcapabilities.ParseID(config.ConnectionType)
		if !ok {
			return nil, NewConfigurationError(
				dbcapabilities.DatabaseID(config.ConnectionType),
				"connectionType",
				fmt.Sprintf("unknown database type: %s", config.ConnectionType),
			)
		}
		dbType = parsed
	}

	adapter, err := r.Get(dbType)
	if err != nil {
		return nil, err
	}

	conn, err := adapter.Connect(ctx, config)
	if err != nil {
		return nil, WrapError(dbType, "connect", err)
	}

	return conn, nil
}

// GetCapabilities returns the capabilities for a database type.
func (r *Registry) GetCapabilities(dbType dbcapabilities.DatabaseID) (dbcapabilities.Capability, error) {
	adapter, err := r.Get(dbType)
	if err != nil {
		return dbcapabilities.Capability{}, err
	}

	return adapter.Capabilities(), nil
}

package main

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gridbase/gridbase/internal/database"
	"github.com/gridbase/gridbase/internal/profile"
	"github.com/gridbase/gridbase/internal/reconcile"
	"github.com/gridbase/gridbase/internal/registry"
	"github.com/gridbase/gridbase/internal/session"
	"github.com/gridbase/gridbase/pkg/logger"
)

// app bundles the services a command needs. Constructed per invocation,
// torn down when the command returns.
type app struct {
	logger   *zap.Logger
	profiles *profile.Store
	registry *registry.Registry
	sessions *session.Manager
}

// newApp wires the service graph: adapter registry, profile store,
// connection registry, reconciliation engine, session manager.
func newApp() (*app, error) {
	log := logger.New(viper.GetString("log-level"), logger.FormatConsole)
	zap.ReplaceGlobals(log)

	store, err := profile.NewStore(viper.GetString("profiles"), log.Named("profile"))
	if err != nil {
		return nil, err
	}

	adapters := database.NewRegistry()
	connections := registry.NewRegistry(adapters, store, log.Named("registry"))
	engine := reconcile.NewEngine(log.Named("reconcile"))

	return &app{
		logger:   log,
		profiles: store,
		registry: connections,
		sessions: session.NewManager(connections, engine, log.Named("session")),
	}, nil
}

// close tears down live connections and flushes logs.
func (a *app) close() {
	a.registry.CloseAll()
	_ = a.logger.Sync()
}

// Package registry tracks at most one live connection per stored profile.
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/gridbase/gridbase/internal/profile"
	"github.com/gridbase/gridbase/pkg/adapter"
)

const (
	connectRetries  = 3
	connectInterval = 500 * time.Millisecond
)

// entry serializes all connection lifecycle work for one profile. A request
// arriving while another is mid-connect waits on the entry mutex instead of
// opening a second handle.
type entry struct {
	mu   sync.Mutex
	conn adapter.Connection
}

// Registry owns the live connections. All operations against a profile's
// connection go through EnsureConnected so there is never more than one
// handle per profile.
type Registry struct {
	mu       sync.Mutex
	entries  map[string]*entry
	adapters *adapter.Registry
	profiles *profile.Store
	logger   *zap.Logger
}

// NewRegistry returns a connection registry over the given adapter registry
// and profile store.
func NewRegistry(adapters *adapter.Registry, profiles *profile.Store, logger *zap.Logger) *Registry {
	return &Registry{
		entries:  make(map[string]*entry),
		adapters: adapters,
		profiles: profiles,
		logger:   logger,
	}
}

func (r *Registry) entryFor(profileID string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[profileID]
	if !ok {
		e = &entry{}
		r.entries[profileID] = e
	}
	return e
}

// EnsureConnected returns a live connection for the profile, connecting or
// reconnecting as needed. A connection that reports connected but fails a
// ping is torn down and reopened from the stored profile fields.
func (r *Registry) EnsureConnected(ctx context.Context, profileID string) (adapter.Connection, error) {
	p, err := r.profiles.Get(profileID)
	if err != nil {
		return nil, err
	}

	e := r.entryFor(profileID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn != nil && e.conn.IsConnected() {
		if err := e.conn.Ping(ctx); err == nil {
			return e.conn, nil
		}
		r.logger.Warn("stale connection failed ping, reconnecting",
			zap.String("profile_id", profileID))
		if err := e.conn.Close(); err != nil {
			r.logger.Warn("closing stale connection",
				zap.String("profile_id", profileID),
				zap.Error(err))
		}
		e.conn = nil
	}

	conn, err := r.connect(ctx, p)
	if err != nil {
		return nil, err
	}
	e.conn = conn

	r.logger.Info("connected",
		zap.String("profile_id", profileID),
		zap.String("database_type", string(p.Config.DatabaseID)))
	return conn, nil
}

// connect dials the backend, retrying transient failures a fixed number of
// times with a constant interval. Configuration errors are not retried.
func (r *Registry) connect(ctx context.Context, p profile.ConnectionProfile) (adapter.Connection, error) {
	config := p.Config
	config.Name = p.ID

	var conn adapter.Connection
	operation := func() error {
		var err error
		conn, err = r.adapters.Connect(ctx, config)
		if err != nil {
			if adapter.IsConfigurationError(err) {
				return backoff.Permanent(err)
			}
			r.logger.Warn("connect attempt failed",
				zap.String("profile_id", p.ID),
				zap.Error(err))
			return err
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(connectInterval), connectRetries),
		ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return conn, nil
}

// Get returns the profile's live connection without dialing. The second
// return is false when no live connection exists.
func (r *Registry) Get(profileID string) (adapter.Connection, bool) {
	r.mu.Lock()
	e, ok := r.entries[profileID]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn == nil || !e.conn.IsConnected() {
		return nil, false
	}
	return e.conn, true
}

// Status reports whether the profile currently has a live connection. It is
// a pure lookup and never dials.
func (r *Registry) Status(profileID string) bool {
	r.mu.Lock()
	e, ok := r.entries[profileID]
	r.mu.Unlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn != nil && e.conn.IsConnected()
}

// Disconnect closes the profile's live connection if one exists.
func (r *Registry) Disconnect(profileID string) error {
	e := r.entryFor(profileID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn == nil {
		return nil
	}
	err := e.conn.Close()
	e.conn = nil
	if err != nil {
		return fmt.Errorf("disconnecting %s: %w", profileID, err)
	}
	return nil
}

// Remove disconnects the profile (best effort) and deletes it from the
// store. A disconnect failure is logged, not returned; the profile is
// removed regardless.
func (r *Registry) Remove(profileID string) error {
	if err := r.Disconnect(profileID); err != nil {
		r.logger.Warn("disconnect during profile removal",
			zap.String("profile_id", profileID),
			zap.Error(err))
	}

	r.mu.Lock()
	delete(r.entries, profileID)
	r.mu.Unlock()

	return r.profiles.Remove(profileID)
}

// CloseAll tears down every live connection. Used at shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	entries := make(map[string]*entry, len(r.entries))
	for id, e := range r.entries {
		entries[id] = e
	}
	r.mu.Unlock()

	for id, e := range entries {
		e.mu.Lock()
		if e.conn != nil {
			if err := e.conn.Close(); err != nil {
				r.logger.Warn("closing connection at shutdown",
					zap.String("profile_id", id),
					zap.Error(err))
			}
			e.conn = nil
		}
		e.mu.Unlock()
	}
}

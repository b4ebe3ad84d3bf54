package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gridbase/gridbase/pkg/adapter"
)

// storeFile is the on-disk document shape.
type storeFile struct {
	Configs     []ConnectionProfile `json:"configs"`
	LastUpdated time.Time           `json:"lastUpdated"`
}

// Store is a file-backed profile store. All mutations are written through to
// disk before returning.
type Store struct {
	mu       sync.RWMutex
	path     string
	profiles map[string]ConnectionProfile
	logger   *zap.Logger
}

// NewStore loads the store at path, creating parent directories as needed.
// A missing file starts an empty store. A corrupt file is reset to an empty
// store rather than failing startup; the previous contents are lost.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating profile directory: %w", err)
	}

	s := &Store{
		path:     path,
		profiles: make(map[string]ConnectionProfile),
		logger:   logger,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profile store: %w", err)
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		s.logger.Warn("profile store corrupt, resetting to empty",
			zap.String("path", path),
			zap.Error(err))
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	}

	for _, p := range file.Configs {
		s.profiles[p.ID] = p
	}
	return s, nil
}

// Add stores a new profile for the given configuration and returns its
// assigned identifier.
func (s *Store) Add(alias string, config adapter.ConnectionConfig) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	p := ConnectionProfile{
		ID:        newProfileID(config, now),
		Alias:     alias,
		Config:    config,
		CreatedAt: now,
	}
	s.profiles[p.ID] = p

	if err := s.save(); err != nil {
		delete(s.profiles, p.ID)
		return "", err
	}
	s.logger.Info("profile added",
		zap.String("profile_id", p.ID),
		zap.String("database_type", string(config.DatabaseID)))
	return p.ID, nil
}

// Get returns the profile with the given identifier.
func (s *Store) Get(id string) (ConnectionProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return ConnectionProfile{}, fmt.Errorf("profile %q: %w", id, adapter.ErrProfileNotFound)
	}
	return p, nil
}

// Update replaces the stored configuration for an existing profile. The
// identifier and creation time are preserved.
func (s *Store) Update(id string, alias string, config adapter.ConnectionConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.profiles[id]
	if !ok {
		return fmt.Errorf("profile %q: %w", id, adapter.ErrProfileNotFound)
	}

	s.profiles[id] = ConnectionProfile{
		ID:        id,
		Alias:     alias,
		Config:    config,
		CreatedAt: prev.CreatedAt,
	}
	if err := s.save(); err != nil {
		s.profiles[id] = prev
		return err
	}
	return nil
}

// Remove deletes the profile with the given identifier.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.profiles[id]
	if !ok {
		return fmt.Errorf("profile %q: %w", id, adapter.ErrProfileNotFound)
	}
	delete(s.profiles, id)

	if err := s.save(); err != nil {
		s.profiles[id] = prev
		return err
	}
	s.logger.Info("profile removed", zap.String("profile_id", id))
	return nil
}

// List returns all stored profiles keyed by identifier.
func (s *Store) List() map[string]ConnectionProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]ConnectionProfile, len(s.profiles))
	for id, p := range s.profiles {
		out[id] = p
	}
	return out
}

// save writes the current profile set to disk. Caller holds the lock.
func (s *Store) save() error {
	file := storeFile{
		Configs:     make([]ConnectionProfile, 0, len(s.profiles)),
		LastUpdated: time.Now(),
	}
	for _, p := range s.profiles {
		file.Configs = append(file.Configs, p)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing profile store: %w", err)
	}
	return nil
}

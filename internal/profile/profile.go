// Package profile persists connection profiles to a JSON file on disk.
package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/gridbase/gridbase/pkg/adapter"
)

// ConnectionProfile is one stored connection definition. Immutable once
// created except through Store.Update, which replaces it in place.
type ConnectionProfile struct {
	ID        string                   `json:"id"`
	Alias     string                   `json:"alias"`
	Config    adapter.ConnectionConfig `json:"config"`
	CreatedAt time.Time                `json:"createdAt"`
}

// Target returns the profile's connection target: host:port for network
// backends, the file path for file backends, or the raw connection string.
func (p ConnectionProfile) Target() string {
	return configTarget(p.Config)
}

func configTarget(config adapter.ConnectionConfig) string {
	switch {
	case config.FilePath != "":
		return config.FilePath
	case config.Host != "":
		return fmt.Sprintf("%s:%d", config.Host, config.Port)
	default:
		return config.ConnectionString
	}
}

// newProfileID derives a stable identifier from the backend type, the
// connection target, and a creation-time salt, so two profiles against the
// same database stay distinguishable.
func newProfileID(config adapter.ConnectionConfig, createdAt time.Time) string {
	target := configTarget(config)
	target = strings.NewReplacer("/", "_", ":", "_", "@", "_").Replace(target)
	return fmt.Sprintf("%s_%s_%d", config.DatabaseID, target, createdAt.UnixNano())
}

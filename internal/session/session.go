// Package session manages grid-edit sessions: a fetched row snapshot per
// opened table, the save round-trip against it, and ad-hoc queries.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gridbase/gridbase/internal/reconcile"
	"github.com/gridbase/gridbase/internal/registry"
	"github.com/gridbase/gridbase/pkg/adapter"
)

// Session is one open table with its captured snapshot. The snapshot is the
// baseline every edit in the next save is diffed against.
type Session struct {
	ID        string
	ProfileID string
	Table     string
	Snapshot  reconcile.RowSnapshot
}

// View is what the caller renders: schema metadata plus the fetched rows
// keyed by their session-scoped row references.
type View struct {
	SessionID   string                            `json:"sessionId"`
	Columns     []adapter.ColumnMeta              `json:"columns"`
	PrimaryKeys []string                          `json:"primaryKeys"`
	Rows        map[string]map[string]interface{} `json:"rows"`
}

// SaveResponse is the envelope returned for a save round-trip.
type SaveResponse struct {
	Status  string                   `json:"status"`
	Rows    []map[string]interface{} `json:"rows,omitempty"`
	Message string                   `json:"message,omitempty"`
}

// Manager owns the open sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	registry *registry.Registry
	engine   *reconcile.Engine
	logger   *zap.Logger
}

// NewManager returns a session manager over the given connection registry.
func NewManager(reg *registry.Registry, engine *reconcile.Engine, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		registry: reg,
		engine:   engine,
		logger:   logger,
	}
}

// Open fetches the table's schema and first page of rows, captures the
// snapshot, and returns the view for editing.
func (m *Manager) Open(ctx context.Context, profileID, table string) (*View, error) {
	conn, err := m.registry.EnsureConnected(ctx, profileID)
	if err != nil {
		return nil, err
	}

	schema := conn.SchemaOperations()
	columns, err := schema.ListColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	primaryKeys, err := schema.ListPrimaryKeys(ctx, table)
	if err != nil {
		return nil, err
	}
	rows, err := conn.DataOperations().Fetch(ctx, table, reconcile.DefaultPageSize)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.New().String(),
		ProfileID: profileID,
		Table:     table,
		Snapshot:  snapshotRows(rows),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("session opened",
		zap.String("session_id", s.ID),
		zap.String("table", table),
		zap.Int("rows", len(rows)))

	return &View{
		SessionID:   s.ID,
		Columns:     columns,
		PrimaryKeys: primaryKeys,
		Rows:        s.Snapshot,
	}, nil
}

// Save applies the edit batch for the session and returns the UI envelope.
// On success the session's snapshot is replaced by the refreshed rows; the
// caller must discard its old edits and re-render from the response.
func (m *Manager) Save(ctx context.Context, sessionID string, batch reconcile.EditBatch) SaveResponse {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return SaveResponse{Status: "error", Message: fmt.Sprintf("unknown session %q", sessionID)}
	}

	conn, err := m.registry.EnsureConnected(ctx, s.ProfileID)
	if err != nil {
		return SaveResponse{Status: "error", Message: err.Error()}
	}

	result, err := m.engine.Save(ctx, conn, s.Table, s.Snapshot, batch)
	if err != nil {
		msg := err.Error()
		if result != nil && result.Report.Applied > 0 {
			msg = fmt.Sprintf("partially applied (%d of %d operations): %s",
				result.Report.Applied, result.Report.Total, msg)
		}
		return SaveResponse{Status: "error", Message: msg}
	}

	m.mu.Lock()
	s.Snapshot = snapshotRows(result.Rows)
	m.mu.Unlock()

	return SaveResponse{Status: "success", Rows: result.Rows}
}

// Query runs a free-text command against the profile's connection and
// returns the normalized rows.
func (m *Manager) Query(ctx context.Context, profileID, command string) ([]map[string]interface{}, error) {
	conn, err := m.registry.EnsureConnected(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return conn.DataOperations().Execute(ctx, command)
}

// Close discards the session and its snapshot.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// snapshotRows assigns each fetched row a position-based reference. The
// references are session-scoped and never sent to the backend.
func snapshotRows(rows []map[string]interface{}) reconcile.RowSnapshot {
	snapshot := make(reconcile.RowSnapshot, len(rows))
	for i, row := range rows {
		snapshot[fmt.Sprintf("row-%d", i)] = row
	}
	return snapshot
}

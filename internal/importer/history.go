// internal/importer/history.go
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vmunix/mediarename/internal/migrations"
)

// Actions recorded in history.
const (
	ActionRenamed  = "renamed"
	ActionCopied   = "copied"
	ActionSkipped  = "skipped"
	ActionBackedUp = "backed_up"
)

// HistoryEntry represents a history record.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	Session   string    `json:"session"`
	Action    string    `json:"action"`
	Source    string    `json:"source"`
	Dest      string    `json:"dest,omitempty"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryFilter specifies criteria for listing history.
type HistoryFilter struct {
	Session string
	Action  string
	Limit   int
}

// NewSession returns an identifier grouping the entries of one run.
func NewSession() string {
	return uuid.NewString()
}

// OpenHistoryDB opens the SQLite database at path, creating it and applying
// migrations as needed.
func OpenHistoryDB(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// HistoryStore persists history records.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a history store.
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Add inserts a new history entry.
func (s *HistoryStore) Add(h *HistoryEntry) error {
	now := time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO history (session, action, source, dest, title, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.Session, h.Action, h.Source, h.Dest, h.Title, now,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	h.ID = id
	h.CreatedAt = now
	return nil
}

// List returns history entries matching the filter.
// Results are ordered by most recent first.
func (s *HistoryStore) List(f HistoryFilter) ([]*HistoryEntry, error) {
	var conditions []string
	var args []any

	if f.Session != "" {
		conditions = append(conditions, "session = ?")
		args = append(args, f.Session)
	}
	if f.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, f.Action)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT id, session, action, source, dest, title, created_at
		FROM history ` + whereClause + ` ORDER BY created_at DESC, id DESC`

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*HistoryEntry
	for rows.Next() {
		h := &HistoryEntry{}
		if err := rows.Scan(&h.ID, &h.Session, &h.Action, &h.Source, &h.Dest, &h.Title, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		results = append(results, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return results, nil
}

// Package archive provides SQLite-backed storage for finalized decisions.
// The engine itself is in-memory and non-persistent; the archive is where
// the surrounding orchestration writes durable snapshots at finalize time
// and serves the decision history afterwards.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ShayCichocki/quorum/pkg/models"
)

// Store wraps an SQLite database holding finalized decision snapshots.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// Summary is one row of the decision history listing.
type Summary struct {
	DecisionID    string
	ConflictType  models.ConflictType
	TriggerReason string
	WinnerTitle   string
	FinalizedAt   time.Time
}

// Open opens (or creates) the archive at the given path and applies the
// schema. WAL mode is enabled for concurrent reads.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS decisions (
			decision_id TEXT PRIMARY KEY,
			conflict_type TEXT NOT NULL,
			trigger_reason TEXT NOT NULL DEFAULT '',
			winner_title TEXT NOT NULL DEFAULT '',
			finalized_at TEXT NOT NULL,
			snapshot TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_decisions_finalized_at ON decisions(finalized_at);
	`)
	if err != nil {
		return fmt.Errorf("create decisions table: %w", err)
	}
	return nil
}

// Save persists a finalized decision snapshot. Saving the same decision ID
// again overwrites the stored row, so re-archiving is harmless.
func (s *Store) Save(d *models.Decision) error {
	if d.EndTime == nil {
		return fmt.Errorf("decision %s is not finalized", d.DecisionID)
	}

	snapshot, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal decision %s: %w", d.DecisionID, err)
	}

	winnerTitle := ""
	if d.Result != nil {
		winnerTitle = d.Result.WinningOption.Title
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`
		INSERT INTO decisions (decision_id, conflict_type, trigger_reason, winner_title, finalized_at, snapshot)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(decision_id) DO UPDATE SET
			winner_title = excluded.winner_title,
			finalized_at = excluded.finalized_at,
			snapshot = excluded.snapshot
	`, d.DecisionID, string(d.ConflictType), d.TriggerReason, winnerTitle,
		d.EndTime.UTC().Format(time.RFC3339), string(snapshot))
	if err != nil {
		return fmt.Errorf("save decision %s: %w", d.DecisionID, err)
	}
	return nil
}

// Load returns the archived snapshot for a decision ID, or (nil, nil) when
// the ID is not archived.
func (s *Store) Load(decisionID string) (*models.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snapshot string
	row := s.db.QueryRow("SELECT snapshot FROM decisions WHERE decision_id = ?", decisionID)
	if err := row.Scan(&snapshot); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load decision %s: %w", decisionID, err)
	}

	var d models.Decision
	if err := json.Unmarshal([]byte(snapshot), &d); err != nil {
		return nil, fmt.Errorf("unmarshal decision %s: %w", decisionID, err)
	}
	return &d, nil
}

// List returns summaries of all archived decisions, most recent first.
func (s *Store) List() ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT decision_id, conflict_type, trigger_reason, winner_title, finalized_at
		FROM decisions ORDER BY finalized_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var conflictType, finalizedAt string
		if err := rows.Scan(&sum.DecisionID, &conflictType, &sum.TriggerReason, &sum.WinnerTitle, &finalizedAt); err != nil {
			return nil, fmt.Errorf("scan decision row: %w", err)
		}
		sum.ConflictType = models.ConflictType(conflictType)
		t, err := time.Parse(time.RFC3339, finalizedAt)
		if err != nil {
			return nil, fmt.Errorf("parse finalized_at for %s: %w", sum.DecisionID, err)
		}
		sum.FinalizedAt = t
		out = append(out, sum)
	}
	return out, rows.Err()
}

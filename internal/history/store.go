// Package history records delivered tallies in a SQLite database.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/f3rmion/livevote/internal/vote"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS tally_snapshot (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at INTEGER NOT NULL,
	mode        TEXT NOT NULL,
	total       INTEGER NOT NULL,
	counts      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tally_snapshot_recorded_at ON tally_snapshot(recorded_at);
`

// Mode tells which driver produced a snapshot.
type Mode string

const (
	ModePoll   Mode = "poll"
	ModeStream Mode = "stream"
)

// Snapshot is one recorded tally.
type Snapshot struct {
	ID         int64
	RecordedAt time.Time
	Mode       Mode
	Total      int
	Tally      vote.Tally
}

// Store is a SQLite-backed snapshot log.
type Store struct {
	db   *sql.DB
	mode Mode
	now  func() time.Time
}

// Open opens (or creates) the database at path.
func Open(path string, mode Mode) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps writes ordered.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, mode: mode, now: time.Now}, nil
}

// Record stores a tally.
func (s *Store) Record(t vote.Tally) error {
	counts, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling tally: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO tally_snapshot (recorded_at, mode, total, counts) VALUES (?, ?, ?, ?)`,
		s.now().UnixMilli(), string(s.mode), t.Total(), string(counts),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

// Recent returns up to n snapshots, newest first.
func (s *Store) Recent(n int) ([]Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT id, recorded_at, mode, total, counts
		FROM tally_snapshot
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			snap   Snapshot
			millis int64
			mode   string
			counts string
		)
		if err := rows.Scan(&snap.ID, &millis, &mode, &snap.Total, &counts); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(counts), &snap.Tally); err != nil {
			continue // Skip malformed rows
		}
		snap.RecordedAt = time.UnixMilli(millis)
		snap.Mode = Mode(mode)
		out = append(out, snap)
	}

	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

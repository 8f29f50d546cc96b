// ABOUTME: SQLite-backed session store keeping the latest snapshot and a turn log
// ABOUTME: Schema is created on open; snapshots are stored as their JSON encoding

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mailru/easyjson"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mauromedda/pi-mood-go/internal/emotion"
)

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and migrates it.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating sqlite %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS mood_state (
			session_id TEXT PRIMARY KEY,
			turn INTEGER NOT NULL,
			dominant TEXT NOT NULL,
			snapshot TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS mood_turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			turn INTEGER NOT NULL,
			dominant TEXT NOT NULL,
			intensity REAL NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_mood_turns_session ON mood_turns(session_id, turn);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Save upserts the latest snapshot and appends a row to the turn log.
func (s *SQLiteStore) Save(ctx context.Context, id string, snap emotion.Snapshot) error {
	data, err := easyjson.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling state %s: %w", id, err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO mood_state(session_id, turn, dominant, snapshot, updated_at)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			turn = excluded.turn,
			dominant = excluded.dominant,
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at`,
		id, snap.Turn, snap.Dominant, string(data), now); err != nil {
		return fmt.Errorf("saving state %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO mood_turns(session_id, turn, dominant, intensity, created_at)
		VALUES(?, ?, ?, ?, ?)`,
		id, snap.Turn, snap.Dominant, snap.Intensity.Value, now); err != nil {
		return fmt.Errorf("logging turn %s: %w", id, err)
	}
	return tx.Commit()
}

// Load returns the latest snapshot of id.
func (s *SQLiteStore) Load(ctx context.Context, id string) (emotion.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM mood_state WHERE session_id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return emotion.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return emotion.Snapshot{}, fmt.Errorf("loading state %s: %w", id, err)
	}
	var snap emotion.Snapshot
	if err := easyjson.Unmarshal([]byte(data), &snap); err != nil {
		return emotion.Snapshot{}, fmt.Errorf("parsing state %s: %w", id, err)
	}
	return snap, nil
}

// Delete removes the state and turn log of id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	for _, q := range []string{
		`DELETE FROM mood_state WHERE session_id = ?`,
		`DELETE FROM mood_turns WHERE session_id = ?`,
	} {
		if _, err := s.db.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("deleting state %s: %w", id, err)
		}
	}
	return nil
}

// List returns the IDs with saved state, sorted.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session_id FROM mood_state ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TurnCount returns how many saves were logged for id.
func (s *SQLiteStore) TurnCount(ctx context.Context, id string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mood_turns WHERE session_id = ?`, id).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

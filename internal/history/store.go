// Package history persists slideshow sessions and per-image view counts to a
// local SQLite database, so past runs can be inspected and resumed.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// ErrNoSessions is returned by LastSession when the store is empty.
var ErrNoSessions = errors.New("history: no sessions recorded")

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id               TEXT PRIMARY KEY,
    root             TEXT NOT NULL,
    node             TEXT NOT NULL DEFAULT '',
    display_order    TEXT NOT NULL,
    preset           TEXT NOT NULL,
    image_count      INTEGER NOT NULL,
    realized_seconds REAL NOT NULL,
    started_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    ended_at         TIMESTAMP,
    completed        INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS views (
    session_id TEXT NOT NULL REFERENCES sessions(id),
    path       TEXT NOT NULL,
    rating     INTEGER NOT NULL,
    views      INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (session_id, path)
);
`

// Session describes one recorded slideshow run.
type Session struct {
	ID              string
	Root            string
	Node            string
	Order           string
	Preset          string
	ImageCount      int
	RealizedSeconds float64
	StartedAt       time.Time
	EndedAt         time.Time // zero when the session never ended cleanly
	Completed       bool
}

// View is the number of times an image was shown during a session.
type View struct {
	Path   string
	Rating int
	Views  int
}

// Store wraps a SQLite database holding session history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at dbPath, enables WAL mode
// and busy timeout, and creates the schema tables if they do not exist.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// Limit to one connection. SQLite only supports a single writer; using
	// one connection avoids SQLITE_BUSY contention between pooled connections
	// that each need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: set busy timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// BeginSession records the start of a new run. The session ID must be unique.
func (s *Store) BeginSession(ctx context.Context, sess Session) error {
	const q = `
		INSERT INTO sessions (id, root, node, display_order, preset, image_count, realized_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		sess.ID, sess.Root, sess.Node, sess.Order, sess.Preset, sess.ImageCount, sess.RealizedSeconds)
	if err != nil {
		return fmt.Errorf("history: begin session %q: %w", sess.ID, err)
	}
	return nil
}

// EndSession marks a session as ended. completed reports whether playback
// reached the stop segment rather than being cancelled.
func (s *Store) EndSession(ctx context.Context, sessionID string, completed bool) error {
	const q = `UPDATE sessions SET ended_at = CURRENT_TIMESTAMP, completed = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, boolToInt(completed), sessionID)
	if err != nil {
		return fmt.Errorf("history: end session %q: %w", sessionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("history: end session rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("history: end session: unknown session %q", sessionID)
	}
	return nil
}

// RecordView increments the view count for an image within a session,
// inserting the row on first sight.
func (s *Store) RecordView(ctx context.Context, sessionID, path string, rating int) error {
	const q = `
		INSERT INTO views (session_id, path, rating, views)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(session_id, path) DO UPDATE SET views = views + 1`
	if _, err := s.db.ExecContext(ctx, q, sessionID, path, rating); err != nil {
		return fmt.Errorf("history: record view %q/%q: %w", sessionID, path, err)
	}
	return nil
}

// LastSession returns the most recently started session, or ErrNoSessions
// when nothing has been recorded yet.
func (s *Store) LastSession(ctx context.Context) (Session, error) {
	const q = `
		SELECT id, root, node, display_order, preset, image_count, realized_seconds,
		       started_at, ended_at, completed
		FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT 1`
	sess, err := s.scanSession(s.db.QueryRowContext(ctx, q))
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNoSessions
	}
	if err != nil {
		return Session{}, fmt.Errorf("history: last session: %w", err)
	}
	return sess, nil
}

// Sessions returns all recorded sessions, newest first.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	const q = `
		SELECT id, root, node, display_order, preset, image_count, realized_seconds,
		       started_at, ended_at, completed
		FROM sessions ORDER BY started_at DESC, rowid DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("history: query sessions: %w", err)
	}
	defer rows.Close()

	var result []Session
	for rows.Next() {
		sess, err := s.scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("history: scan session: %w", err)
		}
		result = append(result, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate sessions: %w", err)
	}
	return result, nil
}

// Views returns the per-image view counts for a session, ordered by path.
func (s *Store) Views(ctx context.Context, sessionID string) ([]View, error) {
	const q = `SELECT path, rating, views FROM views WHERE session_id = ? ORDER BY path`
	rows, err := s.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("history: query views %q: %w", sessionID, err)
	}
	defer rows.Close()

	var result []View
	for rows.Next() {
		var v View
		if err := rows.Scan(&v.Path, &v.Rating, &v.Views); err != nil {
			return nil, fmt.Errorf("history: scan view: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate views: %w", err)
	}
	return result, nil
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanSession(row scanner) (Session, error) {
	var (
		sess      Session
		started   string
		ended     sql.NullString
		completed int
	)
	err := row.Scan(&sess.ID, &sess.Root, &sess.Node, &sess.Order, &sess.Preset,
		&sess.ImageCount, &sess.RealizedSeconds, &started, &ended, &completed)
	if err != nil {
		return Session{}, err
	}
	sess.StartedAt, err = parseTimestamp(started)
	if err != nil {
		return Session{}, fmt.Errorf("parse started_at: %w", err)
	}
	if ended.Valid {
		sess.EndedAt, err = parseTimestamp(ended.String)
		if err != nil {
			return Session{}, fmt.Errorf("parse ended_at: %w", err)
		}
	}
	sess.Completed = completed != 0
	return sess, nil
}

// timestampFormats lists the formats SQLite drivers may produce for
// CURRENT_TIMESTAMP. modernc.org/sqlite typically returns RFC 3339
// (with "T" separator and "Z" suffix), while canonical SQLite returns
// the space-separated DateTime format.
var timestampFormats = []string{
	time.RFC3339,
	time.DateTime,
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Package history records an optional transcript of kernel traffic in
// SQLite. It is a log of requests and responses, not persistence of the
// evaluation context: replaying it does not restore a session.
package history

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Current schema version
const SchemaVersion = "1"

// Entry is one served request/response pair.
type Entry struct {
	Seq    int
	Code   string
	Stdout string
	Stderr string
	Error  string
}

// Recorder receives one Entry per served request.
type Recorder interface {
	// Record appends an entry to the transcript.
	Record(e Entry) error
	// Close releases resources.
	Close() error
}

// SQLite is a SQLite-backed Recorder scoped to one session.
type SQLite struct {
	mu      sync.Mutex
	db      *sql.DB
	session string
}

// OpenSQLite opens (creating if needed) the transcript database at path and
// registers a session row for this process.
func OpenSQLite(path, session, engineName string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			engine TEXT NOT NULL,
			started_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS requests (
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			code TEXT NOT NULL,
			stdout TEXT NOT NULL,
			stderr TEXT NOT NULL,
			error TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (session_id, seq),
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db, session: session}

	version, err := s.getMetadata("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	if version == "" {
		if err := s.setMetadata("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	} else if version != SchemaVersion {
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	_, err = db.Exec("INSERT INTO sessions (id, engine, started_at) VALUES (?, ?, ?)",
		session, engineName, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Record appends one request/response pair to this session's transcript.
func (s *SQLite) Record(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO requests (session_id, seq, code, stdout, stderr, error, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.session, e.Seq, e.Code, e.Stdout, e.Stderr, e.Error,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// Entries returns this session's transcript in request order. A limit of 0
// returns everything.
func (s *SQLite) Entries(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := "SELECT seq, code, stdout, stderr, error FROM requests WHERE session_id = ? ORDER BY seq"
	args := []any{s.session}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Seq, &e.Code, &e.Stdout, &e.Stderr, &e.Error); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func (s *SQLite) getMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLite) setMetadata(key, value string) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)", key, value)
	return err
}

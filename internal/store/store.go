package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides a SQLite side-index of generated entries, so fixture
// consumers can assert on counts without re-parsing the text file.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Entry is one indexed log line
type Entry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Component string    `json:"component"`
	Message   string    `json:"message"`
	Line      string    `json:"line"`
}

// Open creates or opens the index database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			level TEXT NOT NULL,
			component TEXT NOT NULL,
			message TEXT NOT NULL,
			line TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_entries_timestamp ON entries(timestamp);
		CREATE INDEX IF NOT EXISTS idx_entries_level ON entries(level);
		CREATE INDEX IF NOT EXISTS idx_entries_component ON entries(component);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Insert adds one entry to the index
func (s *Store) Insert(e Entry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(
		"INSERT INTO entries (timestamp, level, component, message, line) VALUES (?, ?, ?, ?, ?)",
		e.Timestamp, e.Level, e.Component, e.Message, e.Line,
	)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// Count returns the total number of indexed entries
func (s *Store) Count() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count)
	return count, err
}

// CountByLevel returns the number of entries with the given level tag
func (s *Store) CountByLevel(level string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM entries WHERE level = ?", level).Scan(&count)
	return count, err
}

// Recent returns the most recently generated entries, newest first
func (s *Store) Recent(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT id, timestamp, level, component, message, line FROM entries ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Level, &e.Component, &e.Message, &e.Line); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the database. The index file is part of the fixture and is
// left in place.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

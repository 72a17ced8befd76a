package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Stats holds counters describing the state of the cache store
type Stats struct {
	TotalEntries   int64
	ValidEntries   int64
	ExpiredEntries int64
}

// Store is a file-backed response cache keyed by request signature.
// Entries past their expiry read as absent; they are replaced on the next
// write and removed by CleanupExpired.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the cache database at the given path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// busy_timeout covers the rare case of a second process holding the file
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure cache database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure cache database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS responses (
			key TEXT PRIMARY KEY,
			body BLOB NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_responses_expires ON responses(expires_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach cache database: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the location of the cache database file
func (s *Store) Path() string {
	return s.path
}

// Get retrieves a cached response body. The second return value reports
// whether a fresh entry was found; expired entries read as absent.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var body []byte
	err := s.db.QueryRow(
		`SELECT body FROM responses WHERE key = ? AND expires_at > ?`,
		key, time.Now().UnixMilli(),
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}

	return body, true, nil
}

// Put stores a response body under the given key, overwriting any previous
// entry for that key. The entry expires after ttl; expiry is tracked at
// millisecond granularity.
func (s *Store) Put(key string, body []byte, ttl time.Duration) error {
	now := time.Now()
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO responses (key, body, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		key, body, now.Add(ttl).UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to put cache entry: %w", err)
	}

	return nil
}

// CleanupExpired removes expired entries and returns how many were deleted
func (s *Store) CleanupExpired() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM responses WHERE expires_at <= ?`, time.Now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired entries: %w", err)
	}

	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// GetStats returns counters for the cache contents
func (s *Store) GetStats() (*Stats, error) {
	now := time.Now().UnixMilli()
	stats := &Stats{}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&stats.TotalEntries); err != nil {
		return nil, fmt.Errorf("failed to count cache entries: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM responses WHERE expires_at > ?`, now).Scan(&stats.ValidEntries); err != nil {
		return nil, fmt.Errorf("failed to count valid entries: %w", err)
	}
	stats.ExpiredEntries = stats.TotalEntries - stats.ValidEntries

	return stats, nil
}

// Clear removes all entries from the cache
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM responses`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

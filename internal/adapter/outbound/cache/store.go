// Package cache provides a local response cache so the flora and route
// encyclopedias stay readable without connectivity.
//
// Entries are stored in a single-file SQLite database keyed by a hash of
// the request path. A freshness TTL separates the read-through hit path
// from the offline fallback path: Get only returns entries younger than
// the TTL, GetStale returns whatever is there regardless of age.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	_ "modernc.org/sqlite"
)

// DefaultTTL is how long a cached response counts as fresh.
const DefaultTTL = 24 * time.Hour

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	key        TEXT PRIMARY KEY,
	path       TEXT NOT NULL,
	body       BLOB NOT NULL,
	fetched_at INTEGER NOT NULL
);
`

// Store is a TTL-bounded response cache backed by SQLite.
type Store struct {
	db     *sql.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Open opens (and if needed initializes) the cache database at path.
// A ttl of 0 selects DefaultTTL.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	if ttl == 0 {
		ttl = DefaultTTL
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	// The cache is only ever touched by one CLI invocation at a time, and
	// SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}

	return &Store{db: db, ttl: ttl, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached body for the given request path if it is younger
// than the TTL. The second return value reports a hit.
func (s *Store) Get(ctx context.Context, path string) ([]byte, bool, error) {
	return s.get(ctx, path, time.Now().Add(-s.ttl).Unix())
}

// GetStale returns the cached body for the given request path regardless
// of its age. This is the offline fallback path.
func (s *Store) GetStale(ctx context.Context, path string) ([]byte, bool, error) {
	return s.get(ctx, path, 0)
}

func (s *Store) get(ctx context.Context, path string, notBefore int64) ([]byte, bool, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM entries WHERE key = ? AND fetched_at >= ?`,
		cacheKey(path), notBefore,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	return body, true, nil
}

// Put stores the body for the given request path, replacing any previous
// entry.
func (s *Store) Put(ctx context.Context, path string, body []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (key, path, body, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		cacheKey(path), path, body, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	s.logger.Debug("cached response", "path", path, "bytes", len(body))
	return nil
}

// Purge removes every cached entry.
func (s *Store) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	return nil
}

// cacheKey hashes a request path into a fixed-width key.
func cacheKey(path string) string {
	return strconv.FormatUint(xxhash.Sum64String(path), 16)
}

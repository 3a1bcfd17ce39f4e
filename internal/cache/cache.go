// Package cache stores lint results keyed by file content, so clean
// reruns skip files that have not changed.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cxxlint/cxxlint/internal/diag"
)

// ErrMiss is returned by Get when no entry matches.
var ErrMiss = errors.New("cache: miss")

// Store is a sqlite-backed diagnostic cache. Entries are keyed by
// (path, content hash, config hash); any change to the file or to the
// diagnostic-relevant configuration misses.
type Store struct {
	db *sql.DB
}

// Open creates or opens the cache database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: initialize schema: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS results (
		path TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		config_hash TEXT NOT NULL,
		diagnostics_json TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (path, content_hash, config_hash)
	);
	CREATE INDEX IF NOT EXISTS idx_results_created ON results(created_at);
	`)

	return err
}

// ContentHash returns the hex SHA-256 of the file content.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)

	return hex.EncodeToString(sum[:])
}

// Get returns the cached diagnostics for the key, or ErrMiss.
func (s *Store) Get(path, contentHash, configHash string) ([]diag.Diagnostic, error) {
	var raw string
	err := s.db.QueryRow(
		`SELECT diagnostics_json FROM results WHERE path = ? AND content_hash = ? AND config_hash = ?`,
		path, contentHash, configHash,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache: query: %w", err)
	}

	var diags []diag.Diagnostic
	if err := json.Unmarshal([]byte(raw), &diags); err != nil {
		return nil, fmt.Errorf("cache: decode entry for %s: %w", path, err)
	}

	return diags, nil
}

// Put stores the diagnostics for the key, replacing any stale entries
// for the same path under the same config.
func (s *Store) Put(path, contentHash, configHash string, diags []diag.Diagnostic) error {
	raw, err := json.Marshal(diags)
	if err != nil {
		return fmt.Errorf("cache: encode entry for %s: %w", path, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("cache: begin: %w", err)
	}
	defer tx.Rollback()

	// Old content hashes for this path are dead weight.
	if _, err := tx.Exec(
		`DELETE FROM results WHERE path = ? AND config_hash = ? AND content_hash != ?`,
		path, configHash, contentHash,
	); err != nil {
		return fmt.Errorf("cache: evict stale entries: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO results (path, content_hash, config_hash, diagnostics_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		path, contentHash, configHash, string(raw), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("cache: insert: %w", err)
	}

	return tx.Commit()
}

// Prune removes entries older than maxAge and returns how many were
// deleted.
func (s *Store) Prune(maxAge time.Duration) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM results WHERE created_at < ?`, time.Now().UTC().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("cache: prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache: prune: %w", err)
	}

	return n, nil
}

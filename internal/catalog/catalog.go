// Package catalog keeps a local SQLite record of every file the upload stage
// lists in its manifest, with a content checksum for later comparison.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Entry is one catalogued file.
type Entry struct {
	Path       string    `json:"path"`
	SizeBytes  int64     `json:"size_bytes"`
	Checksum   string    `json:"checksum"`
	RunID      string    `json:"run_id"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Catalog is a handle on the upload catalog database.
type Catalog struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
}

// Open opens or creates the catalog database at path.
func Open(ctx context.Context, path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Catalog{db: db, dbPath: path}, nil
}

// Path returns the database file location.
func (c *Catalog) Path() string {
	return c.dbPath
}

// Record inserts e, replacing any earlier row for the same path.
func (c *Catalog) Record(ctx context.Context, e Entry) error {
	if e.Path == "" {
		return fmt.Errorf("entry path is required")
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO uploads (path, size_bytes, checksum, run_id, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			size_bytes = excluded.size_bytes,
			checksum = excluded.checksum,
			run_id = excluded.run_id,
			recorded_at = excluded.recorded_at`,
		e.Path, e.SizeBytes, e.Checksum, e.RunID, e.RecordedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", e.Path, err)
	}
	return nil
}

// List returns all entries ordered by path.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.QueryContext(ctx,
		`SELECT path, size_bytes, checksum, run_id, recorded_at FROM uploads ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var recordedAt string
		if err := rows.Scan(&e.Path, &e.SizeBytes, &e.Checksum, &e.RunID, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, recordedAt); err == nil {
			e.RecordedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate uploads: %w", err)
	}
	return entries, nil
}

// Count returns the number of catalogued files.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM uploads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count uploads: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Checksum returns "sha256:<hex>" of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file: %w", err)
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}

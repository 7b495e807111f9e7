// Package cache keeps the raw bytes of uploaded reports in a local SQLite
// file, keyed by report id.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// ErrMiss is returned by Get when no blob is stored under the key.
var ErrMiss = errors.New("cache miss")

type BlobCache struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open creates the database file if needed and ensures the schema exists.
func Open(ctx context.Context, dbPath string, logger zerolog.Logger) (*BlobCache, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)

	c := &BlobCache{db: db, logger: logger}
	if err := c.init(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug().Str("path", dbPath).Msg("blob cache opened")
	return c, nil
}

func (c *BlobCache) init(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS blobs (
		key TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return nil
}

// Key derives the storage key for a report id.
func Key(reportID string) string {
	return "pdf_" + reportID
}

// Put stores data under key, replacing any previous value.
func (c *BlobCache) Put(ctx context.Context, key string, data []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO blobs (key, data, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, created_at = excluded.created_at`,
		key, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store blob %s: %w", key, err)
	}
	c.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("blob stored")
	return nil
}

func (c *BlobCache) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := c.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *BlobCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

func (c *BlobCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

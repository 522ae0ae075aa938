package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"apidisco/internal/discovery"
)

// Cached wraps another Source with a SQLite-backed document store so a
// process restart does not refetch every discovery document. Entries
// expire after the configured TTL; misses and stale rows fall through to
// the inner source.
type Cached struct {
	inner Source
	db    *sql.DB
	ttl   time.Duration
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS discovery_docs (
	api TEXT NOT NULL,
	version TEXT NOT NULL,
	document TEXT NOT NULL,
	fetched_at INTEGER NOT NULL,
	PRIMARY KEY (api, version)
);
`

func NewCached(inner Source, dbPath string, ttl time.Duration) (*Cached, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("source: open cache: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("source: create cache schema: %w", err)
	}
	return &Cached{inner: inner, db: db, ttl: ttl}, nil
}

func (c *Cached) Close() error {
	return c.db.Close()
}

func (c *Cached) GetDocument(ctx context.Context, name, version string) (*discovery.Document, error) {
	if doc, ok := c.lookup(ctx, name, version); ok {
		return doc, nil
	}
	doc, err := c.inner.GetDocument(ctx, name, version)
	if err != nil {
		return nil, err
	}
	c.store(ctx, name, version, doc)
	return doc, nil
}

func (c *Cached) lookup(ctx context.Context, name, version string) (*discovery.Document, bool) {
	var raw string
	var fetchedAt int64
	err := c.db.QueryRowContext(ctx,
		`SELECT document, fetched_at FROM discovery_docs WHERE api = ? AND version = ?`,
		name, version).Scan(&raw, &fetchedAt)
	if err != nil {
		return nil, false
	}
	if time.Since(time.Unix(fetchedAt, 0)) > c.ttl {
		return nil, false
	}
	var doc discovery.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false
	}
	return &doc, true
}

func (c *Cached) store(ctx context.Context, name, version string, doc *discovery.Document) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return
	}
	// Best-effort: a cache write failure never fails the fetch.
	_, _ = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO discovery_docs (api, version, document, fetched_at) VALUES (?, ?, ?, ?)`,
		name, version, string(raw), time.Now().Unix())
}

// Package sqlite implements store.Backend on the SQLite database.
//
// Objects live in the objects table keyed by (kind, key); refs live in the
// refs table keyed by name. The schema is created by the embedded
// migrations, so callers run database.DB.Migrate before use.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nerrad567/graystore/internal/infrastructure/database"
	"github.com/nerrad567/graystore/internal/store"
)

// Backend stores objects and refs in SQLite.
type Backend struct {
	db *database.DB
}

// New returns a backend over an open, migrated database.
func New(db *database.DB) *Backend {
	return &Backend{db: db}
}

// GetObject returns the stored bytes of an object.
func (b *Backend) GetObject(ctx context.Context, kind store.Kind, key store.Key) ([]byte, error) {
	const query = `SELECT data FROM objects WHERE kind = ? AND key = ?`
	var data []byte
	err := b.db.QueryRowContext(ctx, query, string(kind), string(key)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying object %s %s: %w", kind, key, err)
	}
	return data, nil
}

// PutObject inserts an object, ignoring one that already exists.
func (b *Backend) PutObject(ctx context.Context, kind store.Kind, key store.Key, data []byte) error {
	const query = `INSERT OR IGNORE INTO objects (kind, key, data) VALUES (?, ?, ?)`
	if _, err := b.db.ExecContext(ctx, query, string(kind), string(key), data); err != nil {
		return fmt.Errorf("inserting object %s %s: %w", kind, key, err)
	}
	return nil
}

// HasObject reports whether an object exists.
func (b *Backend) HasObject(ctx context.Context, kind store.Kind, key store.Key) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM objects WHERE kind = ? AND key = ?)`
	var exists bool
	if err := b.db.QueryRowContext(ctx, query, string(kind), string(key)).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking object %s %s: %w", kind, key, err)
	}
	return exists, nil
}

// GetRef returns the key a ref points at.
func (b *Backend) GetRef(ctx context.Context, name string) (store.Key, error) {
	const query = `SELECT key FROM refs WHERE name = ?`
	var key string
	err := b.db.QueryRowContext(ctx, query, name).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying ref %s: %w", name, err)
	}
	return store.Key(key), nil
}

// SetRef creates or moves a ref.
func (b *Backend) SetRef(ctx context.Context, name string, key store.Key) error {
	const query = `INSERT INTO refs (name, key) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET
			key = excluded.key,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`
	if _, err := b.db.ExecContext(ctx, query, name, string(key)); err != nil {
		return fmt.Errorf("setting ref %s: %w", name, err)
	}
	return nil
}

// DeleteRef removes a ref and reports whether it existed.
func (b *Backend) DeleteRef(ctx context.Context, name string) (bool, error) {
	const query = `DELETE FROM refs WHERE name = ?`
	res, err := b.db.ExecContext(ctx, query, name)
	if err != nil {
		return false, fmt.Errorf("deleting ref %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting ref %s: %w", name, err)
	}
	return n > 0, nil
}

// ListRefs returns ref names starting with prefix in byte order.
func (b *Backend) ListRefs(ctx context.Context, prefix string) ([]string, error) {
	// BINARY collation orders like Go strings, so the scan can stop at the
	// first name past the prefix.
	const query = `SELECT name FROM refs WHERE name >= ? ORDER BY name`
	rows, err := b.db.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing refs: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning ref: %w", err)
		}
		if !strings.HasPrefix(name, prefix) {
			break
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating refs: %w", err)
	}
	return names, nil
}

var _ store.Backend = (*Backend)(nil)

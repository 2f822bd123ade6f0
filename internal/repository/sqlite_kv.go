package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/doone/internal/db"
)

// SQLiteKVStore implements KVStore over a single key/value table. The
// ledger, streak and settings components keep their serialized blobs here
// under fixed keys.
type SQLiteKVStore struct {
	db db.DBTX
}

// NewSQLiteKVStore creates a new SQLiteKVStore.
func NewSQLiteKVStore(conn db.DBTX) *SQLiteKVStore {
	return &SQLiteKVStore{db: conn}
}

func (r *SQLiteKVStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("kv key %q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("reading kv key %q: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteKVStore) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing kv key %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteKVStore) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting kv key %q: %w", key, err)
	}
	return nil
}

package internal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const createSessionKVSQL = `
CREATE TABLE IF NOT EXISTS sessionKV (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// OpenDatabase opens (creating if needed) the workspace SQLite database
func OpenDatabase(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps :memory: databases coherent and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := db.Exec(createSessionKVSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sessionKV table: %w", err)
	}

	return db, nil
}

// QuerySessionKV returns the key/value pairs whose key starts with prefix
func QuerySessionKV(ctx context.Context, db *sql.DB, prefix string) ([]KeyValuePair, error) {
	query := `SELECT key, value FROM sessionKV WHERE key LIKE ? ESCAPE '\' AND value IS NOT NULL ORDER BY key`
	rows, err := db.QueryContext(ctx, query, likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var pairs []KeyValuePair
	for rows.Next() {
		var pair KeyValuePair
		var value sql.NullString
		if err := rows.Scan(&pair.Key, &value); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if value.Valid {
			pair.Value = value.String
			pairs = append(pairs, pair)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return pairs, nil
}

// likePrefix escapes LIKE wildcards in prefix and appends %
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}

// KeyValuePair represents a row of sessionKV
type KeyValuePair struct {
	Key   string
	Value string
}

// SQLiteBackend stores values in the sessionKV table
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend wraps an open database
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

// OpenSQLiteBackend opens the database at path and wraps it
func OpenSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteBackend(db), nil
}

func (b *SQLiteBackend) Name() string { return "sqlite" }

func (b *SQLiteBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var value sql.NullString
	err := b.db.QueryRowContext(ctx, "SELECT value FROM sessionKV WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

func (b *SQLiteBackend) Set(ctx context.Context, key, value string) error {
	_, err := b.db.ExecContext(ctx,
		"INSERT INTO sessionKV (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	return err
}

func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	_, err := b.db.ExecContext(ctx, "DELETE FROM sessionKV WHERE key = ?", key)
	return err
}

func (b *SQLiteBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	pairs, err := QuerySessionKV(ctx, b.db, prefix)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		keys = append(keys, pair.Key)
	}
	return keys, nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

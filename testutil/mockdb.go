package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const createSessionKVSQL = `
CREATE TABLE IF NOT EXISTS sessionKV (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// CreateInMemoryDB creates an in-memory SQLite database with the sessionKV table
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createSessionKVSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create sessionKV table: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// CreateTestDB creates an in-memory database holding a workspace from a
// previous build: a session, a topic, brand settings and a version marker.
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	rows := []struct {
		key   string
		value string
	}{
		{key: "studio.version", value: `1.0`},
		{key: "studio.session.current", value: `{"id":"s1","startedAt":"2025-01-02T03:04:05Z"}`},
		{key: "studio.session.topics", value: `[{"id":"t1","name":"Pricing pages","context":"SaaS"}]`},
		{key: "studio.session.snapshot", value: `{"sections":[{"id":"model","content":"Three tiers"}]}`},
		{key: "studio.brand", value: `{"tone":"bold"}`},
		{key: "studio.preferences", value: `["linkedin","newsletter"]`},
	}

	stmt, err := db.Prepare("INSERT INTO sessionKV (key, value) VALUES (?, ?)")
	if err != nil {
		t.Fatalf("Failed to prepare insert statement: %v", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(row.key, row.value); err != nil {
			t.Fatalf("Failed to insert %s: %v", row.key, err)
		}
	}

	return db
}

// InsertValue inserts or replaces a raw value in sessionKV
func InsertValue(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	insertSQL := "INSERT OR REPLACE INTO sessionKV (key, value) VALUES (?, ?)"
	if _, err := db.Exec(insertSQL, key, value); err != nil {
		t.Fatalf("Failed to insert %s: %v", key, err)
	}
}

// ReadValue reads a raw value from sessionKV; ok is false when absent
func ReadValue(t *testing.T, db *sql.DB, key string) (string, bool) {
	t.Helper()
	var value sql.NullString
	err := db.QueryRow("SELECT value FROM sessionKV WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		t.Fatalf("Failed to read %s: %v", key, err)
	}
	return value.String, value.Valid
}

package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateSQLiteFixture creates a workspace database file on disk holding a
// version marker and brand settings.
func CreateSQLiteFixture(t *testing.T, dbPath string, version string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(createSessionKVSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	rows := map[string]string{
		"studio.brand":           `{"archetype":"sage","tone":"bold"}`,
		"studio.session.current": `{"id":"fixture-session","startedAt":"2025-01-02T03:04:05Z"}`,
	}
	if version != "" {
		rows["studio.version"] = version
	}
	for key, value := range rows {
		if _, err := db.Exec("INSERT INTO sessionKV (key, value) VALUES (?, ?)", key, value); err != nil {
			t.Fatalf("Failed to insert %s: %v", key, err)
		}
	}
}

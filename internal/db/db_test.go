package db

import (
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestMigrationsCreateTables(t *testing.T) {
	database := newTestDB(t)

	tables := []string{"_migrations", "projects", "media", "captions", "clips", "config"}
	for _, table := range tables {
		var name string
		err := database.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := New(path, nil)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	first.Close()

	second, err := New(path, nil)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()

	var count int
	if err := second.Conn().QueryRow("SELECT COUNT(*) FROM _migrations WHERE name = '001_init.sql'").Scan(&count); err != nil {
		t.Fatalf("failed to count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("migration recorded %d times, want 1", count)
	}
}

func TestWALMode(t *testing.T) {
	database := newTestDB(t)

	var mode string
	if err := database.Conn().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("failed to read journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %s, want wal", mode)
	}
}

func TestMarkInterruptedUploads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := New(path, nil)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := first.Conn().Exec(
		"INSERT INTO projects (id, name, zoom_percent, created_at, updated_at) VALUES ('p1', 'P', 100, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')",
	); err != nil {
		t.Fatalf("failed to insert project: %v", err)
	}
	if _, err := first.Conn().Exec(
		"INSERT INTO media (id, project_id, display_name, type, duration_seconds, status, created_at) VALUES ('m1', 'p1', 'clip.mp4', 'video', 10, 'uploading', '2026-01-01T00:00:00Z')",
	); err != nil {
		t.Fatalf("failed to insert media: %v", err)
	}
	if _, err := first.Conn().Exec(
		"INSERT INTO media (id, project_id, display_name, type, duration_seconds, status, created_at) VALUES ('m2', 'p1', 'done.mp4', 'video', 10, 'ready', '2026-01-01T00:00:00Z')",
	); err != nil {
		t.Fatalf("failed to insert media: %v", err)
	}
	first.Close()

	second, err := New(path, nil)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()

	var status, errMsg string
	if err := second.Conn().QueryRow("SELECT status, error FROM media WHERE id = 'm1'").Scan(&status, &errMsg); err != nil {
		t.Fatalf("failed to read media: %v", err)
	}
	if status != "failed" {
		t.Errorf("interrupted upload status = %s, want failed", status)
	}
	if errMsg != "interrupted by restart" {
		t.Errorf("interrupted upload error = %q", errMsg)
	}

	if err := second.Conn().QueryRow("SELECT status FROM media WHERE id = 'm2'").Scan(&status); err != nil {
		t.Fatalf("failed to read media: %v", err)
	}
	if status != "ready" {
		t.Errorf("ready media status = %s, want ready", status)
	}
}

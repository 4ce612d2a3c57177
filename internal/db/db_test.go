package db

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	if got := DSN("/tmp/a.db"); !strings.HasPrefix(got, "/tmp/a.db?_journal_mode=WAL") {
		t.Errorf("DSN = %s", got)
	}
	if got := DSN("file:a.db?cache=shared"); !strings.Contains(got, "cache=shared&_journal_mode=WAL") {
		t.Errorf("DSN = %s", got)
	}
	if !strings.Contains(DSN("x.db"), "_txlock=immediate") {
		t.Error("DSN missing immediate transaction lock")
	}

	read := ReadDSN("x.db")
	if !strings.Contains(read, "_txlock=deferred") || !strings.Contains(read, "_query_only=true") {
		t.Errorf("ReadDSN = %s", read)
	}
	if strings.Contains(read, "immediate") {
		t.Errorf("ReadDSN must not take the write lock: %s", read)
	}
}

func TestOpenReader(t *testing.T) {
	if _, err := OpenReader(MemoryPath); err == nil {
		t.Error("expected in-memory reader to be refused")
	}

	path := filepath.Join(t.TempDir(), "taskgraph.db")
	writer, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer writer.Close()

	reader, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Exec("INSERT INTO lists (id, key) VALUES ('LIST-001', 'a')"); err == nil {
		t.Error("expected write through the read pool to fail")
	}
	var lists int
	if err := reader.QueryRow("SELECT COUNT(*) FROM lists").Scan(&lists); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if lists != 0 {
		t.Errorf("lists = %d, want 0", lists)
	}
}

func TestOpen_FreshFileAppliesMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "taskgraph.db")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	var version int
	if err := database.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		t.Fatalf("query version: %v", err)
	}
	if version != LatestVersion() {
		t.Errorf("version = %d, want %d", version, LatestVersion())
	}
	database.Close()

	// reopening must not re-run migrations
	database, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer database.Close()

	var rows int
	if err := database.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&rows); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if rows != len(migrations) {
		t.Errorf("schema_version rows = %d, want %d", rows, len(migrations))
	}
}

func TestSeedFixtures(t *testing.T) {
	database, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	if err := SeedFixtures(database); err != nil {
		t.Fatalf("SeedFixtures failed: %v", err)
	}

	var items, deps int
	database.QueryRow("SELECT COUNT(*) FROM items").Scan(&items)
	database.QueryRow("SELECT COUNT(*) FROM dependencies").Scan(&deps)
	if items != 7 || deps != 4 {
		t.Errorf("seeded %d items and %d dependencies, want 7 and 4", items, deps)
	}
}

func TestSchema_ChildKeyUniqueness(t *testing.T) {
	database, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := database.Exec(q, args...); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
	}
	mustExec("INSERT INTO lists (id, key) VALUES ('LIST-001', 'a')")
	mustExec("INSERT INTO items (id, list_id, key) VALUES ('ITEM-001', 'LIST-001', 'x')")
	mustExec("INSERT INTO items (id, list_id, parent_id, key) VALUES ('ITEM-002', 'LIST-001', 'ITEM-001', 'x')")

	if _, err := database.Exec("INSERT INTO items (id, list_id, key) VALUES ('ITEM-003', 'LIST-001', 'x')"); err == nil {
		t.Error("expected duplicate top-level key to fail")
	}
	if _, err := database.Exec("INSERT INTO items (id, list_id, parent_id, key) VALUES ('ITEM-004', 'LIST-001', 'ITEM-001', 'x')"); err == nil {
		t.Error("expected duplicate child key to fail")
	}
	if _, err := database.Exec("INSERT INTO dependencies (dependent_id, required_id, type) VALUES ('ITEM-001', 'ITEM-001', 'blocks')"); err == nil {
		t.Error("expected self-loop to fail")
	}
}

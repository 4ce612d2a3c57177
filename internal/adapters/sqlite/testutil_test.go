// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema. Do not declare tables in test files; use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/taskgraph/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// one connection, so every statement sees the same in-memory database
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedList inserts a test list and returns its ID.
func seedList(t *testing.T, db *sql.DB, id, key, project string) string {
	t.Helper()
	if id == "" {
		id = "LIST-001"
	}
	if key == "" {
		key = "test-list"
	}
	_, err := db.Exec("INSERT INTO lists (id, key, project, status) VALUES (?, ?, NULLIF(?, ''), 'active')", id, key, project)
	if err != nil {
		t.Fatalf("failed to seed list: %v", err)
	}
	return id
}

// seedItem inserts a test item and returns its ID. Empty parentID means top level.
func seedItem(t *testing.T, db *sql.DB, id, listID, parentID, key, status string, position int) string {
	t.Helper()
	if status == "" {
		status = "pending"
	}
	_, err := db.Exec(
		"INSERT INTO items (id, list_id, parent_id, key, status, position) VALUES (?, ?, NULLIF(?, ''), ?, ?, ?)",
		id, listID, parentID, key, status, position,
	)
	if err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}
	return id
}

// seedDependency inserts a test edge.
func seedDependency(t *testing.T, db *sql.DB, dependentID, requiredID, depType string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO dependencies (dependent_id, required_id, type) VALUES (?, ?, ?)",
		dependentID, requiredID, depType,
	)
	if err != nil {
		t.Fatalf("failed to seed dependency: %v", err)
	}
}

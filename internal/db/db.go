// Package db opens the SQLite database and owns its schema.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// writePragmas apply to the write pool. Writers take the lock up front
// (BEGIN IMMEDIATE) so concurrent processes serialize instead of failing
// on lock upgrade.
const writePragmas = "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_synchronous=NORMAL&_txlock=immediate"

// readPragmas apply to the read pool. Reads begin deferred so they never
// take the write lock, and query_only rejects any write sent their way.
const readPragmas = "_busy_timeout=5000&_foreign_keys=on&_txlock=deferred&_query_only=true"

// DSN builds the write pool connection string for path.
func DSN(path string) string {
	return withParams(path, writePragmas)
}

// ReadDSN builds the read pool connection string for path.
func ReadDSN(path string) string {
	return withParams(path, readPragmas)
}

func withParams(path, params string) string {
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}

// Open opens the database at path, creating parent directories and applying
// pending migrations.
func Open(path string) (*sql.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == MemoryPath {
		// every pooled connection would otherwise get its own empty database
		database.SetMaxOpenConns(1)
	}

	if err := InitSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// OpenReader opens a read-only pool on a database that Open has already
// initialized. An in-memory database has no second handle to open, so
// callers share the writer there.
func OpenReader(path string) (*sql.DB, error) {
	if path == MemoryPath {
		return nil, fmt.Errorf("in-memory database has no separate reader")
	}

	database, err := sql.Open("sqlite3", ReadDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open read pool: %w", err)
	}
	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to open read pool: %w", err)
	}
	return database, nil
}

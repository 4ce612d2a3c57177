package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for a fresh taskgraph database.
//
// This is the single source of truth for the database schema. Repository
// tests load it through GetSchemaSQL() instead of declaring their own
// tables, so a column referenced by a repository but missing here fails
// the tests with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration to the migrations list
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Lists (named groups of items)
CREATE TABLE IF NOT EXISTS lists (
	id TEXT PRIMARY KEY,
	key TEXT NOT NULL UNIQUE,
	title TEXT,
	project TEXT,
	status TEXT NOT NULL CHECK(status IN ('active', 'archived')) DEFAULT 'active',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_lists_project ON lists(project);

-- Items (the parent_id column forms one forest per list)
CREATE TABLE IF NOT EXISTS items (
	id TEXT PRIMARY KEY,
	list_id TEXT NOT NULL,
	parent_id TEXT,
	key TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL CHECK(status IN ('pending', 'in_progress', 'completed', 'failed')) DEFAULT 'pending',
	position INTEGER NOT NULL DEFAULT 0,
	completion_states TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME,
	FOREIGN KEY (list_id) REFERENCES lists(id) ON DELETE CASCADE,
	FOREIGN KEY (parent_id) REFERENCES items(id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_top_key ON items(list_id, key) WHERE parent_id IS NULL;
CREATE UNIQUE INDEX IF NOT EXISTS idx_items_child_key ON items(parent_id, key) WHERE parent_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id, position);
CREATE INDEX IF NOT EXISTS idx_items_list_status ON items(list_id, status);

-- Dependencies (adjacency list: dependent cannot proceed until required completes)
CREATE TABLE IF NOT EXISTS dependencies (
	dependent_id TEXT NOT NULL,
	required_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK(type IN ('blocks', 'requires', 'related')),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (dependent_id, required_id),
	CHECK (dependent_id <> required_id),
	FOREIGN KEY (dependent_id) REFERENCES items(id) ON DELETE CASCADE,
	FOREIGN KEY (required_id) REFERENCES items(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_dependencies_required ON dependencies(required_id);

-- Item history (audit trail; survives item deletion)
CREATE TABLE IF NOT EXISTS item_history (
	id TEXT PRIMARY KEY,
	operation_id TEXT NOT NULL,
	item_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('create', 'update', 'delete')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	actor_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_item_history_item ON item_history(item_id, created_at);
CREATE INDEX IF NOT EXISTS idx_item_history_operation ON item_history(operation_id);
`

// Migration represents a database migration.
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_lists_items_dependencies_history",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(SchemaSQL)
			return err
		},
	},
}

// InitSchema brings the database up to the latest schema version.
func InitSchema(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err = database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}
		if err := applyMigration(database, m); err != nil {
			return err
		}
	}

	return nil
}

func applyMigration(database *sql.DB, m Migration) error {
	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
	}

	if err := m.Up(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
	}

	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// LatestVersion returns the schema version a fresh database ends up at.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}

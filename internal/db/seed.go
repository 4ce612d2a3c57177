package db

import (
	"database/sql"
	"fmt"
)

// SeedFixtures populates the database with development fixtures: two lists
// in one project, a small hierarchy and a cross-list dependency.
func SeedFixtures(database *sql.DB) error {
	lists := []struct{ id, key, title, project string }{
		{"LIST-001", "backend", "Backend work", "launch"},
		{"LIST-002", "docs", "Documentation", "launch"},
	}
	for _, l := range lists {
		if _, err := database.Exec(
			"INSERT INTO lists (id, key, title, project, status) VALUES (?, ?, ?, ?, 'active')",
			l.id, l.key, l.title, l.project,
		); err != nil {
			return fmt.Errorf("seed lists: %w", err)
		}
	}

	items := []struct {
		id, listID, parentID, key, content, status string
		position                                   int
	}{
		{"ITEM-001", "LIST-001", "", "api", "Ship the public API", "in_progress", 1},
		{"ITEM-002", "LIST-001", "ITEM-001", "schema", "Design the schema", "completed", 1},
		{"ITEM-003", "LIST-001", "ITEM-001", "handlers", "Write handlers", "pending", 2},
		{"ITEM-004", "LIST-001", "ITEM-001", "auth", "Add authentication", "pending", 3},
		{"ITEM-005", "LIST-001", "", "deploy", "Deploy to staging", "pending", 2},
		{"ITEM-006", "LIST-002", "", "reference", "API reference", "pending", 1},
		{"ITEM-007", "LIST-002", "", "tutorial", "Getting started tutorial", "pending", 2},
	}
	for _, it := range items {
		var parent sql.NullString
		if it.parentID != "" {
			parent = sql.NullString{String: it.parentID, Valid: true}
		}
		var completedAt any
		if it.status == "completed" {
			completedAt = sql.NullString{String: "2026-01-01 00:00:00", Valid: true}
		}
		if _, err := database.Exec(
			"INSERT INTO items (id, list_id, parent_id, key, content, status, position, completed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			it.id, it.listID, parent, it.key, it.content, it.status, it.position, completedAt,
		); err != nil {
			return fmt.Errorf("seed items: %w", err)
		}
	}

	deps := []struct{ dependent, required, depType string }{
		{"ITEM-004", "ITEM-003", "blocks"},
		{"ITEM-005", "ITEM-001", "requires"},
		{"ITEM-006", "ITEM-003", "requires"},
		{"ITEM-007", "ITEM-006", "related"},
	}
	for _, d := range deps {
		if _, err := database.Exec(
			"INSERT INTO dependencies (dependent_id, required_id, type) VALUES (?, ?, ?)",
			d.dependent, d.required, d.depType,
		); err != nil {
			return fmt.Errorf("seed dependencies: %w", err)
		}
	}

	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// DependencyRepository implements secondary.DependencyRepository with SQLite.
type DependencyRepository struct {
	db executor
}

// NewDependencyRepository creates a dependency repository outside any transaction.
func NewDependencyRepository(db *sql.DB) *DependencyRepository {
	return newDependencyRepository(db)
}

func newDependencyRepository(db executor) *DependencyRepository {
	return &DependencyRepository{db: db}
}

const dependencySelectCols = "dependent_id, required_id, type, created_at"

func scanDependency(scanner interface {
	Scan(dest ...any) error
}) (*secondary.DependencyRecord, error) {
	var createdAt time.Time
	record := &secondary.DependencyRecord{}
	if err := scanner.Scan(&record.DependentID, &record.RequiredID, &record.Type, &createdAt); err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

func (r *DependencyRepository) queryDependencies(ctx context.Context, query string, args ...any) ([]*secondary.DependencyRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer rows.Close()

	var deps []*secondary.DependencyRecord
	for rows.Next() {
		record, err := scanDependency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		deps = append(deps, record)
	}
	return deps, rows.Err()
}

// Create persists a new edge.
func (r *DependencyRepository) Create(ctx context.Context, dep *secondary.DependencyRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO dependencies (dependent_id, required_id, type) VALUES (?, ?, ?)",
		dep.DependentID, dep.RequiredID, dep.Type,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return tgerrors.DuplicateDependency("%s already depends on %s", dep.DependentID, dep.RequiredID)
		}
		return fmt.Errorf("failed to create dependency: %w", err)
	}
	return nil
}

// Get retrieves the edge for (dependent, required).
func (r *DependencyRepository) Get(ctx context.Context, dependentID, requiredID string) (*secondary.DependencyRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+dependencySelectCols+" FROM dependencies WHERE dependent_id = ? AND required_id = ?",
		dependentID, requiredID,
	)
	record, err := scanDependency(row)
	if err == sql.ErrNoRows {
		return nil, tgerrors.NotFound("dependency", dependentID+" -> "+requiredID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dependency: %w", err)
	}
	return record, nil
}

// Exists reports whether an edge for (dependent, required) exists.
func (r *DependencyRepository) Exists(ctx context.Context, dependentID, requiredID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM dependencies WHERE dependent_id = ? AND required_id = ?",
		dependentID, requiredID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check dependency: %w", err)
	}
	return n > 0, nil
}

// Delete removes the edge. Removing an absent edge is not an error.
func (r *DependencyRepository) Delete(ctx context.Context, dependentID, requiredID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM dependencies WHERE dependent_id = ? AND required_id = ?",
		dependentID, requiredID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete dependency: %w", err)
	}
	return nil
}

// DeleteForItem removes every edge touching the item.
func (r *DependencyRepository) DeleteForItem(ctx context.Context, itemID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM dependencies WHERE dependent_id = ? OR required_id = ?",
		itemID, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete dependencies for item: %w", err)
	}
	return nil
}

// ListOutgoing retrieves edges where the item is the dependent, ordered by required ID.
func (r *DependencyRepository) ListOutgoing(ctx context.Context, itemID string) ([]*secondary.DependencyRecord, error) {
	return r.queryDependencies(ctx,
		"SELECT "+dependencySelectCols+" FROM dependencies WHERE dependent_id = ? ORDER BY required_id",
		itemID,
	)
}

// ListIncoming retrieves edges where the item is required, ordered by dependent ID.
func (r *DependencyRepository) ListIncoming(ctx context.Context, itemID string) ([]*secondary.DependencyRecord, error) {
	return r.queryDependencies(ctx,
		"SELECT "+dependencySelectCols+" FROM dependencies WHERE required_id = ? ORDER BY dependent_id",
		itemID,
	)
}

// ListTouching retrieves edges with either endpoint in itemIDs.
func (r *DependencyRepository) ListTouching(ctx context.Context, itemIDs []string) ([]*secondary.DependencyRecord, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	ph := placeholders(len(itemIDs))
	args := append(stringArgs(itemIDs), stringArgs(itemIDs)...)
	return r.queryDependencies(ctx,
		"SELECT "+dependencySelectCols+" FROM dependencies WHERE dependent_id IN ("+ph+") OR required_id IN ("+ph+") ORDER BY dependent_id, required_id",
		args...,
	)
}

var _ secondary.DependencyRepository = (*DependencyRepository)(nil)

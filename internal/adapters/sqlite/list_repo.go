package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// ListRepository implements secondary.ListRepository with SQLite.
type ListRepository struct {
	db executor
}

// NewListRepository creates a list repository outside any transaction.
func NewListRepository(db *sql.DB) *ListRepository {
	return newListRepository(db)
}

func newListRepository(db executor) *ListRepository {
	return &ListRepository{db: db}
}

const listSelectCols = "id, key, title, project, status, created_at, updated_at"

func scanList(scanner interface {
	Scan(dest ...any) error
}) (*secondary.ListRecord, error) {
	var (
		title     sql.NullString
		project   sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.ListRecord{}
	if err := scanner.Scan(&record.ID, &record.Key, &title, &project, &record.Status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	record.Title = title.String
	record.Project = project.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// Create persists a new list.
func (r *ListRepository) Create(ctx context.Context, list *secondary.ListRecord) error {
	status := list.Status
	if status == "" {
		status = "active"
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO lists (id, key, title, project, status) VALUES (?, ?, ?, ?, ?)",
		list.ID, list.Key, nullString(list.Title), nullString(list.Project), status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return tgerrors.AlreadyExists("list key", list.Key)
		}
		return fmt.Errorf("failed to create list: %w", err)
	}
	return nil
}

// GetByID retrieves a list by its ID.
func (r *ListRepository) GetByID(ctx context.Context, id string) (*secondary.ListRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+listSelectCols+" FROM lists WHERE id = ?", id)
	record, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, tgerrors.NotFound("list", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return record, nil
}

// GetByKey retrieves a list by its unique key.
func (r *ListRepository) GetByKey(ctx context.Context, key string) (*secondary.ListRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+listSelectCols+" FROM lists WHERE key = ?", key)
	record, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, tgerrors.NotFound("list", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return record, nil
}

// List retrieves lists matching the given filters, ordered by key.
func (r *ListRepository) List(ctx context.Context, filters secondary.ListFilters) ([]*secondary.ListRecord, error) {
	query := "SELECT " + listSelectCols + " FROM lists WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.Project != "" {
		query += " AND project = ?"
		args = append(args, filters.Project)
	}
	query += " ORDER BY key ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	var lists []*secondary.ListRecord
	for rows.Next() {
		record, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, record)
	}
	return lists, rows.Err()
}

// UpdateStatus sets the list status.
func (r *ListRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE lists SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update list status: %w", err)
	}
	return requireAffected(result, "list", id)
}

// GetNextID returns the next available list ID.
func (r *ListRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM lists",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next list ID: %w", err)
	}
	return fmt.Sprintf("LIST-%03d", maxID+1), nil
}

var _ secondary.ListRepository = (*ListRepository)(nil)

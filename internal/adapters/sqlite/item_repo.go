package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// ItemRepository implements secondary.ItemRepository with SQLite.
type ItemRepository struct {
	db executor
}

// NewItemRepository creates an item repository outside any transaction.
func NewItemRepository(db *sql.DB) *ItemRepository {
	return newItemRepository(db)
}

func newItemRepository(db executor) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemSelectCols = "id, list_id, parent_id, key, content, status, position, completion_states, created_at, updated_at, completed_at"

const itemOrder = " ORDER BY position ASC, key ASC, id ASC"

// scanItem scans an item row into an ItemRecord.
func scanItem(scanner interface {
	Scan(dest ...any) error
}) (*secondary.ItemRecord, error) {
	var (
		parentID    sql.NullString
		states      sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		completedAt sql.NullTime
	)

	record := &secondary.ItemRecord{}
	err := scanner.Scan(
		&record.ID, &record.ListID, &parentID, &record.Key, &record.Content, &record.Status,
		&record.Position, &states, &createdAt, &updatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ParentID = parentID.String
	record.CompletionStates = states.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	if completedAt.Valid {
		record.CompletedAt = completedAt.Time.Format(time.RFC3339)
	}

	return record, nil
}

func (r *ItemRepository) queryItems(ctx context.Context, query string, args ...any) ([]*secondary.ItemRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*secondary.ItemRecord
	for rows.Next() {
		record, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, record)
	}
	return items, rows.Err()
}

// Create persists a new item.
func (r *ItemRepository) Create(ctx context.Context, item *secondary.ItemRecord) error {
	status := item.Status
	if status == "" {
		status = "pending"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO items (id, list_id, parent_id, key, content, status, position, completion_states) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.ListID, nullString(item.ParentID), item.Key, item.Content, status, item.Position, nullString(item.CompletionStates),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return tgerrors.AlreadyExists("item key", item.Key)
		}
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetByID retrieves an item by its ID.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*secondary.ItemRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+itemSelectCols+" FROM items WHERE id = ?", id)

	record, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, tgerrors.NotFound("item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return record, nil
}

// GetByKey retrieves an item by key within (list, parent).
func (r *ItemRepository) GetByKey(ctx context.Context, listID, parentID, key string) (*secondary.ItemRecord, error) {
	var row *sql.Row
	if parentID == "" {
		row = r.db.QueryRowContext(ctx,
			"SELECT "+itemSelectCols+" FROM items WHERE list_id = ? AND parent_id IS NULL AND key = ?",
			listID, key)
	} else {
		row = r.db.QueryRowContext(ctx,
			"SELECT "+itemSelectCols+" FROM items WHERE list_id = ? AND parent_id = ? AND key = ?",
			listID, parentID, key)
	}

	record, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, tgerrors.NotFound("item", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item by key: %w", err)
	}
	return record, nil
}

// List retrieves items matching the given filters.
func (r *ItemRepository) List(ctx context.Context, filters secondary.ItemFilters) ([]*secondary.ItemRecord, error) {
	query := "SELECT " + itemSelectCols + " FROM items WHERE 1=1"
	args := []any{}

	if len(filters.ListIDs) > 0 {
		query += " AND list_id IN (" + placeholders(len(filters.ListIDs)) + ")"
		args = append(args, stringArgs(filters.ListIDs)...)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.TopLevel {
		query += " AND parent_id IS NULL"
	}
	if filters.HasChildren {
		query += " AND EXISTS (SELECT 1 FROM items c WHERE c.parent_id = items.id)"
	}
	query += itemOrder

	return r.queryItems(ctx, query, args...)
}

// GetChildren retrieves the direct children of an item.
func (r *ItemRepository) GetChildren(ctx context.Context, parentID string) ([]*secondary.ItemRecord, error) {
	return r.queryItems(ctx,
		"SELECT "+itemSelectCols+" FROM items WHERE parent_id = ?"+itemOrder,
		parentID,
	)
}

// UpdateStatus sets the item status. completed_at tracks entry into completed.
func (r *ItemRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE items SET
			status = ?,
			completed_at = CASE WHEN ? = 'completed' THEN CURRENT_TIMESTAMP ELSE NULL END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		status, status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update item status: %w", err)
	}
	return requireAffected(result, "item", id)
}

// UpdateParent moves an item under parentID (empty for top level) at position.
func (r *ItemRepository) UpdateParent(ctx context.Context, id, parentID string, position int) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE items SET parent_id = ?, position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		nullString(parentID), position, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &tgerrors.Error{Kind: tgerrors.ErrAlreadyExists, Msg: fmt.Sprintf("key of item %s is taken under the new parent", id)}
		}
		return fmt.Errorf("failed to update item parent: %w", err)
	}
	return requireAffected(result, "item", id)
}

// UpdateKey renames an item within its (list, parent) scope.
func (r *ItemRepository) UpdateKey(ctx context.Context, id, key string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE items SET key = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		key, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return tgerrors.AlreadyExists("item key", key)
		}
		return fmt.Errorf("failed to update item key: %w", err)
	}
	return requireAffected(result, "item", id)
}

// UpdateCompletionStates replaces the JSON-encoded completion states.
func (r *ItemRepository) UpdateCompletionStates(ctx context.Context, id, states string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE items SET completion_states = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		nullString(states), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update completion states: %w", err)
	}
	return requireAffected(result, "item", id)
}

// Delete removes an item.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return requireAffected(result, "item", id)
}

// GetNextID returns the next available item ID.
func (r *ItemRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM items",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next item ID: %w", err)
	}
	return fmt.Sprintf("ITEM-%03d", maxID+1), nil
}

// MaxPosition returns the highest sibling position under (list, parent), or 0.
func (r *ItemRepository) MaxPosition(ctx context.Context, listID, parentID string) (int, error) {
	var maxPos int
	var err error
	if parentID == "" {
		err = r.db.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position), 0) FROM items WHERE list_id = ? AND parent_id IS NULL",
			listID).Scan(&maxPos)
	} else {
		err = r.db.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position), 0) FROM items WHERE parent_id = ?",
			parentID).Scan(&maxPos)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get max position: %w", err)
	}
	return maxPos, nil
}

var _ secondary.ItemRepository = (*ItemRepository)(nil)

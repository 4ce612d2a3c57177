package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/taskgraph/internal/ports/secondary"
)

// HistoryRepository implements secondary.HistoryRepository with SQLite.
type HistoryRepository struct {
	db executor
}

// NewHistoryRepository creates a history repository outside any transaction.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return newHistoryRepository(db)
}

func newHistoryRepository(db executor) *HistoryRepository {
	return &HistoryRepository{db: db}
}

const historySelectCols = "id, operation_id, item_id, action, field_name, old_value, new_value, actor_id, created_at"

func scanHistory(scanner interface {
	Scan(dest ...any) error
}) (*secondary.HistoryRecord, error) {
	var (
		fieldName sql.NullString
		oldValue  sql.NullString
		newValue  sql.NullString
		actorID   sql.NullString
		createdAt time.Time
	)

	record := &secondary.HistoryRecord{}
	err := scanner.Scan(
		&record.ID, &record.OperationID, &record.ItemID, &record.Action,
		&fieldName, &oldValue, &newValue, &actorID, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.FieldName = fieldName.String
	record.OldValue = oldValue.String
	record.NewValue = newValue.String
	record.ActorID = actorID.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// Create persists a history entry.
func (r *HistoryRepository) Create(ctx context.Context, entry *secondary.HistoryRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO item_history (id, operation_id, item_id, action, field_name, old_value, new_value, actor_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID, entry.OperationID, entry.ItemID, entry.Action,
		nullString(entry.FieldName), nullString(entry.OldValue), nullString(entry.NewValue), nullString(entry.ActorID),
	)
	if err != nil {
		return fmt.Errorf("failed to create history entry: %w", err)
	}
	return nil
}

// ListByItem retrieves history for an item, newest first.
func (r *HistoryRepository) ListByItem(ctx context.Context, itemID string, limit int) ([]*secondary.HistoryRecord, error) {
	query := "SELECT " + historySelectCols + " FROM item_history WHERE item_id = ? ORDER BY created_at DESC, rowid DESC"
	args := []any{itemID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.query(ctx, query, args...)
}

// ListByOperation retrieves every entry written by one operation, in write order.
func (r *HistoryRepository) ListByOperation(ctx context.Context, operationID string) ([]*secondary.HistoryRecord, error) {
	return r.query(ctx,
		"SELECT "+historySelectCols+" FROM item_history WHERE operation_id = ? ORDER BY rowid ASC",
		operationID,
	)
}

func (r *HistoryRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.HistoryRecord
	for rows.Next() {
		record, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, record)
	}
	return entries, rows.Err()
}

var _ secondary.HistoryRepository = (*HistoryRepository)(nil)

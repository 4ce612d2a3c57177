package secondary

import "context"

// HistoryRepository defines the secondary port for item history persistence.
type HistoryRepository interface {
	// Create persists a history entry.
	Create(ctx context.Context, entry *HistoryRecord) error

	// ListByItem retrieves history for an item, newest first. limit <= 0 means no limit.
	ListByItem(ctx context.Context, itemID string, limit int) ([]*HistoryRecord, error)

	// ListByOperation retrieves every entry written by one operation.
	ListByOperation(ctx context.Context, operationID string) ([]*HistoryRecord, error)
}

// HistoryRecord represents a single field change on an item.
type HistoryRecord struct {
	ID          string
	OperationID string
	ItemID      string
	Action      string // create, update, delete
	FieldName   string // Empty string means null
	OldValue    string // Empty string means null
	NewValue    string // Empty string means null
	ActorID     string // Empty string means null
	CreatedAt   string
}

// HistoryWriter records item changes for the current operation.
// Implementations extract actor and operation ID from context.
type HistoryWriter interface {
	// LogCreate records the creation of an item.
	LogCreate(ctx context.Context, itemID string) error

	// LogUpdate records a field change on an item.
	LogUpdate(ctx context.Context, itemID, fieldName, oldValue, newValue string) error

	// LogDelete records the deletion of an item.
	LogDelete(ctx context.Context, itemID string) error
}

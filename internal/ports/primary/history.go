package primary

import "context"

// HistoryService defines the primary port for the item audit trail.
type HistoryService interface {
	// GetHistory retrieves history for an item, newest first. limit <= 0 means no limit.
	GetHistory(ctx context.Context, itemID string, limit int) ([]*HistoryEntry, error)

	// GetOperation retrieves every entry written by one operation.
	GetOperation(ctx context.Context, operationID string) ([]*HistoryEntry, error)
}

// HistoryEntry represents an item change at the port boundary.
type HistoryEntry struct {
	ID          string `json:"id" yaml:"id"`
	OperationID string `json:"operation_id" yaml:"operation_id"`
	ItemID      string `json:"item_id" yaml:"item_id"`
	Action      string `json:"action" yaml:"action"` // 'create', 'update', 'delete'
	FieldName   string `json:"field,omitempty" yaml:"field,omitempty"`
	OldValue    string `json:"old_value,omitempty" yaml:"old_value,omitempty"`
	NewValue    string `json:"new_value,omitempty" yaml:"new_value,omitempty"`
	ActorID     string `json:"actor,omitempty" yaml:"actor,omitempty"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
}

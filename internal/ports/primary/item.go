package primary

import "context"

// ItemService defines the primary port for item operations.
type ItemService interface {
	// CreateItem creates a top-level item in a list.
	CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error)

	// GetItem retrieves an item by ID.
	GetItem(ctx context.Context, itemID string) (*Item, error)

	// ListItems lists items with optional filters, ordered by (position, key, id).
	ListItems(ctx context.Context, filters ItemFilters) ([]*Item, error)

	// UpdateStatus sets an item's status and cascades completion through its ancestors.
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*StatusChange, error)

	// DeleteItem deletes an item and its edges. Descendants are deleted or
	// moved to the item's parent depending on the request.
	DeleteItem(ctx context.Context, req DeleteItemRequest) (*DeleteResult, error)

	// SetCompletionState sets one named completion flag on an item.
	// The flag is independent of the item's status.
	SetCompletionState(ctx context.Context, req SetCompletionStateRequest) (*Item, error)

	// RenameItem changes an item's key. The key stays unique under its parent.
	RenameItem(ctx context.Context, itemID, newKey string) (*Item, error)
}

// CreateItemRequest contains parameters for creating a top-level item.
type CreateItemRequest struct {
	ListID   string // ID or key
	Key      string
	Content  string
	Position int // Optional, 0 means after the last sibling
}

// UpdateStatusRequest contains parameters for a status update.
type UpdateStatusRequest struct {
	ItemID string
	Status string
}

// StatusChange reports what a status update wrote.
type StatusChange struct {
	Item          *Item
	Changed       bool     // false when the item already had the status
	AutoCompleted []string // ancestors completed by the cascade, nearest first
	Reopened      []string // ancestors moved back to in_progress, nearest first
}

// DeleteItemRequest contains parameters for deleting an item.
type DeleteItemRequest struct {
	ItemID string
	// ReparentChildren moves direct children to the deleted item's parent
	// instead of deleting the subtree.
	ReparentChildren bool
}

// DeleteResult reports what a deletion removed or moved.
type DeleteResult struct {
	Deleted       []string // deleted item IDs, deepest first
	Reparented    []string
	AutoCompleted []string
}

// SetCompletionStateRequest contains parameters for setting a completion flag.
type SetCompletionStateRequest struct {
	ItemID string
	Name   string
	Value  any // bool or string; nil removes the flag
}

// ItemFilters contains filter options for listing items.
type ItemFilters struct {
	ListID   string // ID or key, empty means all lists
	Status   string
	TopLevel bool
}

// Item represents an item at the port boundary.
type Item struct {
	ID               string         `json:"id" yaml:"id"`
	ListID           string         `json:"list_id" yaml:"list_id"`
	ParentID         string         `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Key              string         `json:"key" yaml:"key"`
	Content          string         `json:"content" yaml:"content"`
	Status           string         `json:"status" yaml:"status"`
	Position         int            `json:"position" yaml:"position"`
	CompletionStates map[string]any `json:"completion_states,omitempty" yaml:"completion_states,omitempty"`
	CreatedAt        string         `json:"created_at" yaml:"created_at"`
	UpdatedAt        string         `json:"updated_at" yaml:"updated_at"`
	CompletedAt      string         `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

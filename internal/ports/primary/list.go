// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the command surface drives the core.
package primary

import "context"

// ListService defines the primary port for list operations.
type ListService interface {
	// CreateList creates a new active list.
	CreateList(ctx context.Context, req CreateListRequest) (*List, error)

	// GetList retrieves a list by ID or key.
	GetList(ctx context.Context, idOrKey string) (*List, error)

	// ListLists lists lists with optional filters.
	ListLists(ctx context.Context, filters ListFilters) ([]*List, error)

	// ArchiveList archives a list. Archived lists drop out of the all-lists scope.
	ArchiveList(ctx context.Context, idOrKey string) error
}

// CreateListRequest contains parameters for creating a list.
type CreateListRequest struct {
	Key     string
	Title   string // Optional
	Project string // Optional
}

// ListFilters contains filter options for listing lists.
type ListFilters struct {
	Status  string
	Project string
}

// List represents a list at the port boundary.
type List struct {
	ID        string `json:"id" yaml:"id"`
	Key       string `json:"key" yaml:"key"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Project   string `json:"project,omitempty" yaml:"project,omitempty"`
	Status    string `json:"status" yaml:"status"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
	UpdatedAt string `json:"updated_at" yaml:"updated_at"`
}

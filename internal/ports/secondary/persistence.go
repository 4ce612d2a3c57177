// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// Repositories groups the repositories available inside one unit of work.
type Repositories interface {
	Lists() ListRepository
	Items() ItemRepository
	Dependencies() DependencyRepository
	History() HistoryRepository
	Log() HistoryWriter
}

// Store is the Task Store collaborator. Every mutating operation runs inside
// WithTx; read-only operations run inside WithReadTx to observe one snapshot.
type Store interface {
	// WithTx runs fn atomically. Any error returned by fn rolls back every write.
	WithTx(ctx context.Context, fn func(Repositories) error) error

	// WithReadTx runs fn against a consistent read snapshot.
	WithReadTx(ctx context.Context, fn func(Repositories) error) error
}

// ListRepository defines the secondary port for list persistence.
type ListRepository interface {
	// Create persists a new list.
	Create(ctx context.Context, list *ListRecord) error

	// GetByID retrieves a list by its ID.
	GetByID(ctx context.Context, id string) (*ListRecord, error)

	// GetByKey retrieves a list by its unique key.
	GetByKey(ctx context.Context, key string) (*ListRecord, error)

	// List retrieves lists matching the given filters, ordered by key.
	List(ctx context.Context, filters ListFilters) ([]*ListRecord, error)

	// UpdateStatus sets the list status (active/archived).
	UpdateStatus(ctx context.Context, id, status string) error

	// GetNextID returns the next available list ID.
	GetNextID(ctx context.Context) (string, error)
}

// ListRecord represents a list as stored in persistence.
type ListRecord struct {
	ID        string
	Key       string
	Title     string // Empty string means null
	Project   string // Empty string means null
	Status    string
	CreatedAt string
	UpdatedAt string
}

// ListFilters contains filter options for querying lists.
type ListFilters struct {
	Status  string
	Project string
}

// ItemRepository defines the secondary port for item persistence.
type ItemRepository interface {
	// Create persists a new item.
	Create(ctx context.Context, item *ItemRecord) error

	// GetByID retrieves an item by its ID.
	GetByID(ctx context.Context, id string) (*ItemRecord, error)

	// GetByKey retrieves an item by key within (list, parent). Empty parentID means top level.
	GetByKey(ctx context.Context, listID, parentID, key string) (*ItemRecord, error)

	// List retrieves items matching the given filters, ordered by (position, key, id).
	List(ctx context.Context, filters ItemFilters) ([]*ItemRecord, error)

	// GetChildren retrieves the direct children of an item, ordered by (position, key, id).
	GetChildren(ctx context.Context, parentID string) ([]*ItemRecord, error)

	// UpdateStatus sets the item status, maintaining completed_at.
	UpdateStatus(ctx context.Context, id, status string) error

	// UpdateParent moves an item under parentID (empty for top level) at position.
	UpdateParent(ctx context.Context, id, parentID string, position int) error

	// UpdateKey renames an item within its (list, parent) scope.
	UpdateKey(ctx context.Context, id, key string) error

	// UpdateCompletionStates replaces the JSON-encoded completion states.
	UpdateCompletionStates(ctx context.Context, id, states string) error

	// Delete removes an item from persistence.
	Delete(ctx context.Context, id string) error

	// GetNextID returns the next available item ID.
	GetNextID(ctx context.Context) (string, error)

	// MaxPosition returns the highest position among siblings under (list, parent), or 0.
	MaxPosition(ctx context.Context, listID, parentID string) (int, error)
}

// ItemRecord represents an item as stored in persistence.
type ItemRecord struct {
	ID               string
	ListID           string
	ParentID         string // Empty string means null
	Key              string
	Content          string
	Status           string
	Position         int
	CompletionStates string // JSON object, empty string means null
	CreatedAt        string
	UpdatedAt        string
	CompletedAt      string // Empty string means null
}

// ItemFilters contains filter options for querying items.
type ItemFilters struct {
	ListIDs     []string // empty means all lists
	Status      string
	TopLevel    bool // only items without a parent
	HasChildren bool // only items with at least one child
}

// DependencyRepository defines the secondary port for dependency edge persistence.
type DependencyRepository interface {
	// Create persists a new edge.
	Create(ctx context.Context, dep *DependencyRecord) error

	// Get retrieves the edge for (dependent, required).
	Get(ctx context.Context, dependentID, requiredID string) (*DependencyRecord, error)

	// Exists reports whether an edge for (dependent, required) exists.
	Exists(ctx context.Context, dependentID, requiredID string) (bool, error)

	// Delete removes the edge. Removing an absent edge is not an error.
	Delete(ctx context.Context, dependentID, requiredID string) error

	// DeleteForItem removes every edge touching the item.
	DeleteForItem(ctx context.Context, itemID string) error

	// ListOutgoing retrieves edges where the item is the dependent.
	ListOutgoing(ctx context.Context, itemID string) ([]*DependencyRecord, error)

	// ListIncoming retrieves edges where the item is the required side.
	ListIncoming(ctx context.Context, itemID string) ([]*DependencyRecord, error)

	// ListTouching retrieves edges with either endpoint in itemIDs.
	ListTouching(ctx context.Context, itemIDs []string) ([]*DependencyRecord, error)
}

// DependencyRecord represents a dependency edge as stored in persistence.
type DependencyRecord struct {
	DependentID string
	RequiredID  string
	Type        string
	CreatedAt   string
}

package primary

import "context"

// DependencyService defines the primary port for dependency graph operations.
type DependencyService interface {
	// AddDependency records that DependentID cannot proceed until RequiredID completes.
	AddDependency(ctx context.Context, req AddDependencyRequest) (*Dependency, error)

	// RemoveDependency removes an edge. Removing an absent edge succeeds.
	RemoveDependency(ctx context.Context, dependentID, requiredID string) error

	// GetBlockers returns the direct blocks/requires prerequisites that are not completed.
	GetBlockers(ctx context.Context, itemID string) ([]*Item, error)

	// IsBlocked reports whether the item has any blockers.
	IsBlocked(ctx context.Context, itemID string) (bool, error)

	// GetDependents returns the edges whose required side is the item.
	GetDependents(ctx context.Context, itemID string) ([]*Dependency, error)

	// GetDependencyGraph returns the items in scope plus every edge touching them.
	GetDependencyGraph(ctx context.Context, scope Scope) (*DependencyGraph, error)
}

// AddDependencyRequest contains parameters for adding an edge.
type AddDependencyRequest struct {
	DependentID string
	RequiredID  string
	Type        string // blocks, requires or related
}

// Scope selects lists by ID or key. Empty means every active list.
type Scope struct {
	ListIDs []string
}

// Dependency represents an edge at the port boundary.
type Dependency struct {
	DependentID string `json:"dependent_id" yaml:"dependent_id"`
	RequiredID  string `json:"required_id" yaml:"required_id"`
	Type        string `json:"type" yaml:"type"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
}

// DependencyGraph is a read-only snapshot. Nodes include cross-list endpoints
// of edges that touch the scope.
type DependencyGraph struct {
	Nodes []*Item       `json:"nodes" yaml:"nodes"`
	Edges []*Dependency `json:"edges" yaml:"edges"`
}

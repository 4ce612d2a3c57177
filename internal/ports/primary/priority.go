package primary

import "context"

// PriorityService defines the primary port for next-item selection.
type PriorityService interface {
	// GetNextPending picks the single next item to work on within a scope.
	GetNextPending(ctx context.Context, scope Scope) (*NextPending, error)
}

// NextPending is the selector's answer. Item is nil when nothing is available.
type NextPending struct {
	Item  *Item  `json:"item,omitempty" yaml:"item,omitempty"`
	Phase string `json:"phase" yaml:"phase"` // resume, top_level or none
	// ScopeItemCount is the number of items in scope, so "nothing available"
	// can be told apart from "empty list".
	ScopeItemCount int `json:"scope_item_count" yaml:"scope_item_count"`
}

// Found reports whether an item was selected.
func (n *NextPending) Found() bool { return n != nil && n.Item != nil }

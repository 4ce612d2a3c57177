package primary

import (
	"context"
	"iter"
)

// HierarchyService defines the primary port for parent/child operations.
type HierarchyService interface {
	// AddSubtask creates a child item under a parent. The child lives in the parent's list.
	AddSubtask(ctx context.Context, req AddSubtaskRequest) (*Item, error)

	// Reparent moves an item under a new parent, or to top level when NewParentID is empty.
	Reparent(ctx context.Context, req ReparentRequest) (*Item, error)

	// GetHierarchy returns a snapshot of the subtree rooted at an item.
	GetHierarchy(ctx context.Context, itemID string) (*HierarchyNode, error)
}

// AddSubtaskRequest contains parameters for creating a subtask.
type AddSubtaskRequest struct {
	ParentID string
	ListID   string // Optional; must match the parent's list when set
	Key      string
	Content  string
	Position int // Optional, 0 means after the last sibling
}

// ReparentRequest contains parameters for moving an item.
type ReparentRequest struct {
	ItemID      string
	NewParentID string // empty moves the item to top level
}

// HierarchyNode is one node of a subtree snapshot.
type HierarchyNode struct {
	Item     *Item            `json:"item" yaml:"item"`
	Depth    int              `json:"depth" yaml:"depth"`
	Children []*HierarchyNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// All yields the subtree in pre-order. Each call starts a fresh traversal.
func (n *HierarchyNode) All() iter.Seq[*HierarchyNode] {
	return func(yield func(*HierarchyNode) bool) {
		if n == nil {
			return
		}
		stack := []*HierarchyNode{n}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(cur) {
				return
			}
			for i := len(cur.Children) - 1; i >= 0; i-- {
				stack = append(stack, cur.Children[i])
			}
		}
	}
}

package hierarchy

import (
	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/models"
)

// Node is the slice of item state the hierarchy logic needs.
type Node struct {
	ID       string
	ListID   string
	ParentID string
	Key      string
	Content  string
	Status   string
	Position int
}

// Reader exposes the current tree state. Implementations read from the
// transaction the caller is running in.
type Reader interface {
	// Node returns the node for id or a NotFound error.
	Node(id string) (Node, error)
	// Children returns the direct children of id ordered by (position, key, id).
	Children(id string) ([]Node, error)
}

// AncestorChain returns the ancestor IDs of id, nearest first.
// A chain longer than maxDepth or one that revisits a node means the parent
// pointers are corrupted and yields a ConsistencyViolation.
func AncestorChain(r Reader, id string, maxDepth int) ([]string, error) {
	start, err := r.Node(id)
	if err != nil {
		return nil, err
	}

	var chain []string
	seen := map[string]bool{id: true}
	for cur := start.ParentID; cur != ""; {
		if len(chain) >= maxDepth {
			return nil, tgerrors.ConsistencyViolation("ancestor chain of %s exceeds depth %d", id, maxDepth)
		}
		if seen[cur] {
			return nil, tgerrors.ConsistencyViolation("parent loop detected at %s above %s", cur, id)
		}
		seen[cur] = true
		chain = append(chain, cur)

		n, err := r.Node(cur)
		if err != nil {
			return nil, err
		}
		cur = n.ParentID
	}
	return chain, nil
}

// PlanCompletion walks up from parentID after one of its children completed
// and returns the ancestors that must become completed, nearest first.
//
// The walk stops at the first ancestor that is already completed, still has
// an incomplete child, or has no parent. Running it again once the plan has
// been applied returns an empty plan.
func PlanCompletion(r Reader, parentID string, maxDepth int) ([]string, error) {
	var plan []string
	planned := map[string]bool{}

	for cur, depth := parentID, 0; cur != ""; depth++ {
		if depth >= maxDepth {
			return nil, tgerrors.ConsistencyViolation("completion walk from %s exceeds depth %d", parentID, maxDepth)
		}
		if planned[cur] {
			return nil, tgerrors.ConsistencyViolation("parent loop detected at %s", cur)
		}

		n, err := r.Node(cur)
		if err != nil {
			return nil, err
		}
		if n.Status == models.ItemStatusCompleted {
			break
		}

		children, err := r.Children(cur)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, tgerrors.ConsistencyViolation("item %s reached by completion walk has no children", cur)
		}

		allDone := true
		for _, c := range children {
			if c.Status != models.ItemStatusCompleted && !planned[c.ID] {
				allDone = false
				break
			}
		}
		if !allDone {
			break
		}

		plan = append(plan, cur)
		planned[cur] = true
		cur = n.ParentID
	}

	return plan, nil
}

// PlanReopen returns the completed ancestors, starting at parentID, that must
// leave the completed state because a descendant is no longer completed.
func PlanReopen(r Reader, parentID string, maxDepth int) ([]string, error) {
	var plan []string
	seen := map[string]bool{}

	for cur, depth := parentID, 0; cur != ""; depth++ {
		if depth >= maxDepth {
			return nil, tgerrors.ConsistencyViolation("reopen walk from %s exceeds depth %d", parentID, maxDepth)
		}
		if seen[cur] {
			return nil, tgerrors.ConsistencyViolation("parent loop detected at %s", cur)
		}
		seen[cur] = true

		n, err := r.Node(cur)
		if err != nil {
			return nil, err
		}
		if n.Status != models.ItemStatusCompleted {
			break
		}
		plan = append(plan, cur)
		cur = n.ParentID
	}

	return plan, nil
}

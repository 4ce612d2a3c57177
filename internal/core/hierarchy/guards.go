// Package hierarchy contains the pure business logic for the parent/child forest.
// Guards are pure functions that evaluate preconditions without side effects.
package hierarchy

import (
	"fmt"

	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    error // error kind sentinel when not allowed
	Reason  string
}

// Error converts the guard result to a typed error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &tgerrors.Error{Kind: r.Kind, Msg: r.Reason}
}

func deny(kind error, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// AddChildContext provides context for subtask creation guards.
type AddChildContext struct {
	ParentID        string
	ParentExists    bool
	ParentListID    string
	RequestedListID string // optional, empty means inherit
	Key             string
	KeyTaken        bool
}

// ReparentContext provides context for reparenting guards.
type ReparentContext struct {
	ItemID          string
	ItemListID      string
	NewParentID     string // empty means move to top level
	NewParentExists bool
	NewParentListID string
	// NewParentAncestors holds the ancestor chain of the new parent, nearest first.
	NewParentAncestors []string
	Key                string
	KeyTaken           bool
}

// StatusChangeContext provides context for explicit status updates.
type StatusChangeContext struct {
	ItemID               string
	ItemExists           bool
	NewStatus            string
	ChildCount           int
	IncompleteChildCount int
}

// CanAddChild evaluates whether a subtask can be created under a parent.
// Rules:
// - Parent must exist
// - Child must live in the parent's list
// - Key must be unused under the parent
func CanAddChild(ctx AddChildContext) GuardResult {
	if !ctx.ParentExists {
		return deny(tgerrors.ErrNotFound, "parent item %s", ctx.ParentID)
	}

	if ctx.RequestedListID != "" && ctx.RequestedListID != ctx.ParentListID {
		return deny(tgerrors.ErrInvalidHierarchy,
			"parent %s belongs to list %s, cannot add child in list %s",
			ctx.ParentID, ctx.ParentListID, ctx.RequestedListID)
	}

	if ctx.KeyTaken {
		return deny(tgerrors.ErrAlreadyExists, "item key %q under parent %s", ctx.Key, ctx.ParentID)
	}

	return GuardResult{Allowed: true}
}

// CanReparent evaluates whether an item can move under a new parent.
// Rules:
// - New parent must exist (unless moving to top level)
// - New parent must not be the item or one of its descendants
// - New parent must be in the same list
// - Key must be unused under the new parent
func CanReparent(ctx ReparentContext) GuardResult {
	if ctx.NewParentID != "" {
		if !ctx.NewParentExists {
			return deny(tgerrors.ErrNotFound, "parent item %s", ctx.NewParentID)
		}

		if ctx.NewParentID == ctx.ItemID {
			return deny(tgerrors.ErrInvalidHierarchy, "item %s cannot be its own parent", ctx.ItemID)
		}

		for _, ancestor := range ctx.NewParentAncestors {
			if ancestor == ctx.ItemID {
				return deny(tgerrors.ErrInvalidHierarchy,
					"cannot move %s under its own descendant %s", ctx.ItemID, ctx.NewParentID)
			}
		}

		if ctx.NewParentListID != ctx.ItemListID {
			return deny(tgerrors.ErrInvalidHierarchy,
				"cannot move %s (list %s) under %s (list %s)",
				ctx.ItemID, ctx.ItemListID, ctx.NewParentID, ctx.NewParentListID)
		}
	}

	if ctx.KeyTaken {
		return deny(tgerrors.ErrAlreadyExists, "item key %q at destination", ctx.Key)
	}

	return GuardResult{Allowed: true}
}

// CanChangeStatus evaluates an explicit status update.
// Rules:
// - Item must exist
// - Status must be known
// - A parent cannot be completed explicitly while it has incomplete children
// - A parent whose children are all completed cannot leave completed
func CanChangeStatus(ctx StatusChangeContext) GuardResult {
	if !ctx.ItemExists {
		return deny(tgerrors.ErrInvalidStatusTransition, "item %s does not exist", ctx.ItemID)
	}

	if !models.IsValidItemStatus(ctx.NewStatus) {
		return deny(tgerrors.ErrInvalidStatusTransition, "unknown status %q", ctx.NewStatus)
	}

	if ctx.NewStatus == models.ItemStatusCompleted && ctx.IncompleteChildCount > 0 {
		return deny(tgerrors.ErrInvalidStatusTransition,
			"item %s has %d incomplete subtask(s); its completion follows its children",
			ctx.ItemID, ctx.IncompleteChildCount)
	}

	if ctx.ChildCount > 0 && ctx.IncompleteChildCount == 0 && ctx.NewStatus != models.ItemStatusCompleted {
		return deny(tgerrors.ErrInvalidStatusTransition,
			"all %d subtask(s) of item %s are completed; its completion follows its children",
			ctx.ChildCount, ctx.ItemID)
	}

	return GuardResult{Allowed: true}
}

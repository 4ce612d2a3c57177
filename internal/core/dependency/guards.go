// Package dependency contains the pure business logic for the dependency graph.
package dependency

import (
	"fmt"

	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    error
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

// AddDependencyContext provides context for edge creation guards.
type AddDependencyContext struct {
	DependentID     string
	RequiredID      string
	Type            string
	DependentExists bool
	RequiredExists  bool
	EdgeExists      bool
	// RequiredIsAncestor is true when RequiredID is a hierarchy ancestor of DependentID.
	RequiredIsAncestor bool
}

// CanAddDependency evaluates the checks that do not need a graph traversal.
// Rules:
// - Type must be blocks, requires or related
// - Both endpoints must exist
// - Self-loops and repeated edges are duplicates
// - An ordering edge onto one's own ancestor can never be satisfied
func CanAddDependency(ctx AddDependencyContext) GuardResult {
	if !models.IsValidDependencyType(ctx.Type) {
		return deny(tgerrors.ErrValidation, "unknown dependency type %q", ctx.Type)
	}

	if !ctx.DependentExists {
		return deny(tgerrors.ErrNotFound, "item %s", ctx.DependentID)
	}
	if !ctx.RequiredExists {
		return deny(tgerrors.ErrNotFound, "item %s", ctx.RequiredID)
	}

	if ctx.DependentID == ctx.RequiredID {
		return deny(tgerrors.ErrDuplicateDependency, "item %s cannot depend on itself", ctx.DependentID)
	}

	if ctx.EdgeExists {
		return deny(tgerrors.ErrDuplicateDependency,
			"%s already depends on %s", ctx.DependentID, ctx.RequiredID)
	}

	if models.IsOrderingDependency(ctx.Type) && ctx.RequiredIsAncestor {
		return deny(tgerrors.ErrCircularDependency,
			"%s -> %s (ancestor completes only after %s)", ctx.DependentID, ctx.RequiredID, ctx.DependentID)
	}

	return GuardResult{Allowed: true}
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/taskgraph/internal/models"
	"github.com/example/taskgraph/internal/ports/primary"
)

// DependencyAdapter translates dependency commands to DependencyService calls.
type DependencyAdapter struct {
	service primary.DependencyService
	out     io.Writer
}

// NewDependencyAdapter creates a new DependencyAdapter.
func NewDependencyAdapter(service primary.DependencyService, out io.Writer) *DependencyAdapter {
	return &DependencyAdapter{
		service: service,
		out:     out,
	}
}

// Add adds an edge.
func (a *DependencyAdapter) Add(ctx context.Context, dependentID, requiredID, depType string) error {
	dep, err := a.service.AddDependency(ctx, primary.AddDependencyRequest{
		DependentID: dependentID,
		RequiredID:  requiredID,
		Type:        depType,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s now %s %s\n", checkMark(), dep.DependentID, verb(dep.Type), dep.RequiredID)
	return nil
}

// Remove removes an edge.
func (a *DependencyAdapter) Remove(ctx context.Context, dependentID, requiredID string) error {
	if err := a.service.RemoveDependency(ctx, dependentID, requiredID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Removed %s -> %s\n", checkMark(), dependentID, requiredID)
	return nil
}

// Blockers lists what an item is waiting on.
func (a *DependencyAdapter) Blockers(ctx context.Context, itemID string) error {
	blockers, err := a.service.GetBlockers(ctx, itemID)
	if err != nil {
		return err
	}

	if len(blockers) == 0 {
		fmt.Fprintf(a.out, "%s %s is not blocked\n", checkMark(), itemID)
		return nil
	}

	fmt.Fprintf(a.out, "%s %s is blocked by %d item(s):\n", blockedMark(), itemID, len(blockers))
	for _, b := range blockers {
		fmt.Fprintf(a.out, "  %-10s %-20s %s\n", b.ID, b.Key, statusLabel(b.Status))
	}
	return nil
}

// Dependents lists the items waiting on itemID.
func (a *DependencyAdapter) Dependents(ctx context.Context, itemID string) error {
	deps, err := a.service.GetDependents(ctx, itemID)
	if err != nil {
		return err
	}

	if len(deps) == 0 {
		fmt.Fprintf(a.out, "Nothing depends on %s\n", itemID)
		return nil
	}

	for _, d := range deps {
		fmt.Fprintf(a.out, "  %-10s %s %s\n", d.DependentID, verb(d.Type), itemID)
	}
	return nil
}

// Graph exports the dependency graph of the given lists.
func (a *DependencyAdapter) Graph(ctx context.Context, listIDs []string, format string) error {
	graph, err := a.service.GetDependencyGraph(ctx, primary.Scope{ListIDs: listIDs})
	if err != nil {
		return err
	}
	return ExportGraph(a.out, graph, format)
}

func verb(depType string) string {
	switch depType {
	case models.DependencyTypeBlocks:
		return "is blocked by"
	case models.DependencyTypeRequires:
		return "requires"
	}
	return "is related to"
}

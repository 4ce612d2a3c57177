package app

import (
	"context"
	"strings"
	"testing"

	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/models"
	"github.com/example/taskgraph/internal/ports/primary"
)

func TestAddDependency(t *testing.T) {
	ctx := context.Background()
	svc := newServices(newMemStore(), Options{})
	list := mustList(t, svc, "alpha")
	a := mustItem(t, svc, list, "a", 1)
	b := mustItem(t, svc, list, "b", 2)
	c := mustItem(t, svc, list, "c", 3)
	parent := mustItem(t, svc, list, "parent", 4)
	child := mustSubtask(t, svc, parent, "child", 0)
	mustDepend(t, svc, a, b, models.DependencyTypeRequires)
	mustDepend(t, svc, b, c, models.DependencyTypeBlocks)

	tests := []struct {
		name     string
		req      primary.AddDependencyRequest
		wantKind error
	}{
		{"unknown type", primary.AddDependencyRequest{DependentID: a, RequiredID: c, Type: "after"}, tgerrors.ErrValidation},
		{"missing dependent", primary.AddDependencyRequest{DependentID: "ITEM-999", RequiredID: a, Type: "requires"}, tgerrors.ErrNotFound},
		{"missing required", primary.AddDependencyRequest{DependentID: a, RequiredID: "ITEM-999", Type: "requires"}, tgerrors.ErrNotFound},
		{"self loop", primary.AddDependencyRequest{DependentID: a, RequiredID: a, Type: "requires"}, tgerrors.ErrDuplicateDependency},
		{"existing edge", primary.AddDependencyRequest{DependentID: a, RequiredID: b, Type: "blocks"}, tgerrors.ErrDuplicateDependency},
		{"direct cycle", primary.AddDependencyRequest{DependentID: b, RequiredID: a, Type: "requires"}, tgerrors.ErrCircularDependency},
		{"transitive cycle", primary.AddDependencyRequest{DependentID: c, RequiredID: a, Type: "blocks"}, tgerrors.ErrCircularDependency},
		{"onto own ancestor", primary.AddDependencyRequest{DependentID: child, RequiredID: parent, Type: "requires"}, tgerrors.ErrCircularDependency},
		{"related closes no cycle", primary.AddDependencyRequest{DependentID: c, RequiredID: a, Type: "related"}, nil},
		{"onto own descendant", primary.AddDependencyRequest{DependentID: parent, RequiredID: child, Type: "requires"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dep, err := svc.deps.AddDependency(ctx, tt.req)
			if tt.wantKind != nil {
				if !tgerrors.Is(err, tt.wantKind) {
					t.Fatalf("expected %v, got %v", tt.wantKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dep.Type != tt.req.Type {
				t.Errorf("Type = %s, want %s", dep.Type, tt.req.Type)
			}
		})
	}
}

func TestAddDependency_CycleReportsPath(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newServices(store, Options{})
	list := mustList(t, svc, "alpha")
	x := mustItem(t, svc, list, "x", 1)
	y := mustItem(t, svc, list, "y", 2)
	z := mustItem(t, svc, list, "z", 3)
	mustDepend(t, svc, x, y, models.DependencyTypeRequires)
	mustDepend(t, svc, y, z, models.DependencyTypeRequires)

	edges := len(store.state.deps)
	_, err := svc.deps.AddDependency(ctx, primary.AddDependencyRequest{DependentID: z, RequiredID: x, Type: "requires"})
	if !tgerrors.Is(err, tgerrors.ErrCircularDependency) {
		t.Fatalf("expected CircularDependency, got %v", err)
	}
	want := strings.Join([]string{z, x, y, z}, " -> ")
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain path %q", err.Error(), want)
	}
	if !strings.HasPrefix(err.Error(), "add_dependency: ") {
		t.Errorf("error %q is not tagged with the operation", err.Error())
	}
	if len(store.state.deps) != edges {
		t.Errorf("edge count changed from %d to %d", edges, len(store.state.deps))
	}
}

func TestRemoveDependency(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newServices(store, Options{})
	list := mustList(t, svc, "alpha")
	a := mustItem(t, svc, list, "a", 1)
	b := mustItem(t, svc, list, "b", 2)
	mustDepend(t, svc, a, b, models.DependencyTypeBlocks)

	if err := svc.deps.RemoveDependency(ctx, a, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := len(store.state.history)
	if err := svc.deps.RemoveDependency(ctx, a, b); err != nil {
		t.Fatalf("second removal should succeed, got %v", err)
	}
	if len(store.state.history) != before {
		t.Error("removing an absent edge wrote history")
	}

	blocked, err := svc.deps.IsBlocked(ctx, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blocked {
		t.Error("expected a to be unblocked")
	}
}

func TestGetBlockers(t *testing.T) {
	ctx := context.Background()
	svc := newServices(newMemStore(), Options{})
	list := mustList(t, svc, "alpha")
	target := mustItem(t, svc, list, "target", 1)
	second := mustItem(t, svc, list, "second", 2)
	first := mustItem(t, svc, list, "first", 3)
	done := mustItem(t, svc, list, "done", 4)
	loose := mustItem(t, svc, list, "loose", 5)
	mustDepend(t, svc, target, first, models.DependencyTypeBlocks)
	mustDepend(t, svc, target, second, models.DependencyTypeRequires)
	mustDepend(t, svc, target, done, models.DependencyTypeRequires)
	mustDepend(t, svc, target, loose, models.DependencyTypeRelated)
	mustStatus(t, svc, done, models.ItemStatusCompleted)
	mustStatus(t, svc, second, models.ItemStatusInProgress)

	blockers, err := svc.deps.GetBlockers(ctx, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blockers) != 2 || blockers[0].ID != second || blockers[1].ID != first {
		t.Fatalf("expected [%s %s] ordered by id, got %d blockers", second, first, len(blockers))
	}

	blocked, err := svc.deps.IsBlocked(ctx, target)
	if err != nil || !blocked {
		t.Errorf("IsBlocked = %v, %v; want true", blocked, err)
	}

	if _, err := svc.deps.GetBlockers(ctx, "ITEM-404"); !tgerrors.Is(err, tgerrors.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestGetDependents(t *testing.T) {
	ctx := context.Background()
	svc := newServices(newMemStore(), Options{})
	list := mustList(t, svc, "alpha")
	base := mustItem(t, svc, list, "base", 1)
	x := mustItem(t, svc, list, "x", 2)
	y := mustItem(t, svc, list, "y", 3)
	mustDepend(t, svc, y, base, models.DependencyTypeRequires)
	mustDepend(t, svc, x, base, models.DependencyTypeRelated)

	deps, err := svc.deps.GetDependents(ctx, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 2 || deps[0].DependentID != x || deps[1].DependentID != y {
		t.Errorf("unexpected dependents %+v", deps)
	}
}

func TestGetDependencyGraph(t *testing.T) {
	ctx := context.Background()
	svc := newServices(newMemStore(), Options{})
	alpha := mustList(t, svc, "alpha")
	beta := mustList(t, svc, "beta")
	a := mustItem(t, svc, alpha, "a", 1)
	b := mustItem(t, svc, alpha, "b", 2)
	remote := mustItem(t, svc, beta, "remote", 1)
	mustItem(t, svc, beta, "unrelated", 2)
	mustDepend(t, svc, a, b, models.DependencyTypeBlocks)
	mustDepend(t, svc, b, remote, models.DependencyTypeRequires)

	graph, err := svc.deps.GetDependencyGraph(ctx, primary.Scope{ListIDs: []string{"alpha"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(graph.Nodes) != 3 {
		t.Fatalf("expected 3 nodes (two in scope plus the cross-list endpoint), got %d", len(graph.Nodes))
	}
	if graph.Nodes[2].ID != remote {
		t.Errorf("last node = %s, want cross-list endpoint %s", graph.Nodes[2].ID, remote)
	}
	if len(graph.Edges) != 2 {
		t.Errorf("expected 2 edges, got %d", len(graph.Edges))
	}

	empty, err := svc.deps.GetDependencyGraph(ctx, primary.Scope{ListIDs: []string{mustList(t, svc, "gamma")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty.Nodes) != 0 || len(empty.Edges) != 0 {
		t.Errorf("expected empty graph, got %+v", empty)
	}
}

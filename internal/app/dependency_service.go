package app

import (
	"context"
	"slices"

	"github.com/example/taskgraph/internal/core/dependency"
	"github.com/example/taskgraph/internal/core/hierarchy"
	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/models"
	"github.com/example/taskgraph/internal/ports/primary"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// DependencyServiceImpl implements the DependencyService interface.
type DependencyServiceImpl struct {
	runner
}

var _ primary.DependencyService = (*DependencyServiceImpl)(nil)

// NewDependencyService creates a new DependencyService backed by store.
func NewDependencyService(store secondary.Store, opts Options) *DependencyServiceImpl {
	return &DependencyServiceImpl{runner: newRunner(store, opts)}
}

// AddDependency records that DependentID cannot proceed until RequiredID completes.
func (s *DependencyServiceImpl) AddDependency(ctx context.Context, req primary.AddDependencyRequest) (*primary.Dependency, error) {
	var dep *primary.Dependency
	err := s.write(ctx, "add_dependency", func(ctx context.Context, repos secondary.Repositories) error {
		guardCtx := dependency.AddDependencyContext{
			DependentID: req.DependentID,
			RequiredID:  req.RequiredID,
			Type:        req.Type,
		}

		var err error
		if guardCtx.DependentExists, err = itemExists(ctx, repos, req.DependentID); err != nil {
			return err
		}
		if guardCtx.RequiredExists, err = itemExists(ctx, repos, req.RequiredID); err != nil {
			return err
		}

		if guardCtx.DependentExists && guardCtx.RequiredExists && req.DependentID != req.RequiredID {
			if guardCtx.EdgeExists, err = repos.Dependencies().Exists(ctx, req.DependentID, req.RequiredID); err != nil {
				return err
			}
			chain, err := hierarchy.AncestorChain(newTreeReader(ctx, repos.Items()), req.DependentID, s.limits.MaxHierarchyDepth)
			if err != nil {
				return err
			}
			guardCtx.RequiredIsAncestor = slices.Contains(chain, req.RequiredID)
		}

		if err := dependency.CanAddDependency(guardCtx).Error(); err != nil {
			return err
		}

		if models.IsOrderingDependency(req.Type) {
			next := func(id string) ([]string, error) {
				return orderingTargets(ctx, repos, id)
			}
			if err := dependency.CheckCycle(req.DependentID, req.RequiredID, next, s.limits.MaxDependencyDepth); err != nil {
				return err
			}
		}

		record := &secondary.DependencyRecord{
			DependentID: req.DependentID,
			RequiredID:  req.RequiredID,
			Type:        req.Type,
		}
		if err := repos.Dependencies().Create(ctx, record); err != nil {
			return err
		}
		if err := repos.Log().LogUpdate(ctx, req.DependentID, "dependency", "", req.RequiredID+" ("+req.Type+")"); err != nil {
			return err
		}

		created, err := repos.Dependencies().Get(ctx, req.DependentID, req.RequiredID)
		if err != nil {
			return err
		}
		s.logger.Debug("dependency added", "dependent_id", req.DependentID, "required_id", req.RequiredID, "type", req.Type)
		dep = recordToDependency(created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dep, nil
}

// RemoveDependency removes an edge if it exists.
func (s *DependencyServiceImpl) RemoveDependency(ctx context.Context, dependentID, requiredID string) error {
	return s.write(ctx, "remove_dependency", func(ctx context.Context, repos secondary.Repositories) error {
		existing, err := repos.Dependencies().Get(ctx, dependentID, requiredID)
		if tgerrors.Is(err, tgerrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := repos.Dependencies().Delete(ctx, dependentID, requiredID); err != nil {
			return err
		}
		return repos.Log().LogUpdate(ctx, dependentID, "dependency", requiredID+" ("+existing.Type+")", "")
	})
}

// GetBlockers returns the unfinished ordering prerequisites of an item, ordered by ID.
func (s *DependencyServiceImpl) GetBlockers(ctx context.Context, itemID string) ([]*primary.Item, error) {
	var blockers []*primary.Item
	err := s.read(ctx, "get_blockers", func(ctx context.Context, repos secondary.Repositories) error {
		if _, err := repos.Items().GetByID(ctx, itemID); err != nil {
			return err
		}
		ids, err := blockersOf(ctx, repos, itemID)
		if err != nil {
			return err
		}
		blockers = make([]*primary.Item, 0, len(ids))
		for _, id := range ids {
			rec, err := repos.Items().GetByID(ctx, id)
			if err != nil {
				return err
			}
			item, err := recordToItem(rec)
			if err != nil {
				return err
			}
			blockers = append(blockers, item)
		}
		return nil
	})
	return blockers, err
}

// IsBlocked reports whether the item has any blockers.
func (s *DependencyServiceImpl) IsBlocked(ctx context.Context, itemID string) (bool, error) {
	var blocked bool
	err := s.read(ctx, "is_blocked", func(ctx context.Context, repos secondary.Repositories) error {
		if _, err := repos.Items().GetByID(ctx, itemID); err != nil {
			return err
		}
		ids, err := blockersOf(ctx, repos, itemID)
		if err != nil {
			return err
		}
		blocked = len(ids) > 0
		return nil
	})
	return blocked, err
}

// GetDependents returns the edges that require itemID.
func (s *DependencyServiceImpl) GetDependents(ctx context.Context, itemID string) ([]*primary.Dependency, error) {
	var deps []*primary.Dependency
	err := s.read(ctx, "get_dependents", func(ctx context.Context, repos secondary.Repositories) error {
		if _, err := repos.Items().GetByID(ctx, itemID); err != nil {
			return err
		}
		records, err := repos.Dependencies().ListIncoming(ctx, itemID)
		if err != nil {
			return err
		}
		deps = make([]*primary.Dependency, len(records))
		for i, r := range records {
			deps[i] = recordToDependency(r)
		}
		return nil
	})
	return deps, err
}

// GetDependencyGraph returns the items in scope, the edges touching them and
// the items at the far end of cross-list edges.
func (s *DependencyServiceImpl) GetDependencyGraph(ctx context.Context, scope primary.Scope) (*primary.DependencyGraph, error) {
	graph := &primary.DependencyGraph{Nodes: []*primary.Item{}, Edges: []*primary.Dependency{}}
	err := s.read(ctx, "get_dependency_graph", func(ctx context.Context, repos secondary.Repositories) error {
		lists, err := resolveScope(ctx, repos.Lists(), scope)
		if err != nil {
			return err
		}
		if len(lists) == 0 {
			return nil
		}

		records, err := repos.Items().List(ctx, secondary.ItemFilters{ListIDs: listIDs(lists)})
		if err != nil {
			return err
		}
		inScope := make(map[string]bool, len(records))
		ids := make([]string, len(records))
		for i, r := range records {
			inScope[r.ID] = true
			ids[i] = r.ID
			item, err := recordToItem(r)
			if err != nil {
				return err
			}
			graph.Nodes = append(graph.Nodes, item)
		}

		edges, err := repos.Dependencies().ListTouching(ctx, ids)
		if err != nil {
			return err
		}
		var external []string
		for _, e := range edges {
			graph.Edges = append(graph.Edges, recordToDependency(e))
			for _, id := range []string{e.DependentID, e.RequiredID} {
				if !inScope[id] {
					inScope[id] = true
					external = append(external, id)
				}
			}
		}

		slices.Sort(external)
		for _, id := range external {
			rec, err := repos.Items().GetByID(ctx, id)
			if err != nil {
				return err
			}
			item, err := recordToItem(rec)
			if err != nil {
				return err
			}
			graph.Nodes = append(graph.Nodes, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return graph, nil
}

func itemExists(ctx context.Context, repos secondary.Repositories, id string) (bool, error) {
	_, err := repos.Items().GetByID(ctx, id)
	if tgerrors.Is(err, tgerrors.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// orderingTargets returns the items id waits on through blocks/requires edges.
func orderingTargets(ctx context.Context, repos secondary.Repositories, id string) ([]string, error) {
	out, err := repos.Dependencies().ListOutgoing(ctx, id)
	if err != nil {
		return nil, err
	}
	targets := make([]string, 0, len(out))
	for _, e := range out {
		if models.IsOrderingDependency(e.Type) {
			targets = append(targets, e.RequiredID)
		}
	}
	return targets, nil
}

package app

import (
	"context"

	"github.com/example/taskgraph/internal/core/hierarchy"
	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/models"
	"github.com/example/taskgraph/internal/ports/primary"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// HierarchyServiceImpl implements the HierarchyService interface.
type HierarchyServiceImpl struct {
	runner
}

var _ primary.HierarchyService = (*HierarchyServiceImpl)(nil)

// NewHierarchyService creates a new HierarchyService backed by store.
func NewHierarchyService(store secondary.Store, opts Options) *HierarchyServiceImpl {
	return &HierarchyServiceImpl{runner: newRunner(store, opts)}
}

// AddSubtask creates a child item under a parent.
func (s *HierarchyServiceImpl) AddSubtask(ctx context.Context, req primary.AddSubtaskRequest) (*primary.Item, error) {
	if err := validateKey(req.Key); err != nil {
		return nil, tagOp(err, "add_subtask")
	}

	var item *primary.Item
	err := s.write(ctx, "add_subtask", func(ctx context.Context, repos secondary.Repositories) error {
		guardCtx := hierarchy.AddChildContext{ParentID: req.ParentID, Key: req.Key}

		parent, err := repos.Items().GetByID(ctx, req.ParentID)
		switch {
		case err == nil:
			guardCtx.ParentExists = true
			guardCtx.ParentListID = parent.ListID
		case !tgerrors.Is(err, tgerrors.ErrNotFound):
			return err
		}

		if guardCtx.ParentExists {
			if req.ListID != "" {
				requested, err := resolveList(ctx, repos.Lists(), req.ListID)
				if err != nil {
					return err
				}
				guardCtx.RequestedListID = requested.ID
			}
			taken, err := keyTaken(ctx, repos.Items(), parent.ListID, parent.ID, req.Key, "")
			if err != nil {
				return err
			}
			guardCtx.KeyTaken = taken
		}

		if err := hierarchy.CanAddChild(guardCtx).Error(); err != nil {
			return err
		}
		if err := requireActiveList(ctx, repos, parent.ListID); err != nil {
			return err
		}

		chain, err := hierarchy.AncestorChain(newTreeReader(ctx, repos.Items()), parent.ID, s.limits.MaxHierarchyDepth)
		if err != nil {
			return err
		}
		if len(chain)+1 > s.limits.MaxHierarchyDepth {
			return tgerrors.InvalidHierarchy("subtask of %s would exceed the maximum depth of %d", parent.ID, s.limits.MaxHierarchyDepth)
		}

		created, err := s.insertItem(ctx, repos, parent.ListID, parent.ID, req.Key, req.Content, req.Position)
		if err != nil {
			return err
		}

		// a completed parent gained a pending child
		if _, _, err := s.rederive(ctx, repos, parent.ID); err != nil {
			return err
		}

		s.logger.Debug("subtask added", "item_id", created.ID, "parent_id", parent.ID)
		item, err = recordToItem(created)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Reparent moves an item under a new parent, or to top level.
func (s *HierarchyServiceImpl) Reparent(ctx context.Context, req primary.ReparentRequest) (*primary.Item, error) {
	var item *primary.Item
	err := s.write(ctx, "reparent", func(ctx context.Context, repos secondary.Repositories) error {
		rec, err := repos.Items().GetByID(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if rec.ParentID == req.NewParentID {
			item, err = recordToItem(rec)
			return err
		}

		reader := newTreeReader(ctx, repos.Items())
		guardCtx := hierarchy.ReparentContext{
			ItemID:      rec.ID,
			ItemListID:  rec.ListID,
			NewParentID: req.NewParentID,
			Key:         rec.Key,
		}

		var parentDepth int
		if req.NewParentID != "" {
			newParent, err := repos.Items().GetByID(ctx, req.NewParentID)
			switch {
			case err == nil:
				guardCtx.NewParentExists = true
				guardCtx.NewParentListID = newParent.ListID
				chain, err := hierarchy.AncestorChain(reader, newParent.ID, s.limits.MaxHierarchyDepth)
				if err != nil {
					return err
				}
				guardCtx.NewParentAncestors = chain
				parentDepth = len(chain)
			case !tgerrors.Is(err, tgerrors.ErrNotFound):
				return err
			}
		}

		taken, err := keyTaken(ctx, repos.Items(), rec.ListID, req.NewParentID, rec.Key, rec.ID)
		if err != nil {
			return err
		}
		guardCtx.KeyTaken = taken

		if err := hierarchy.CanReparent(guardCtx).Error(); err != nil {
			return err
		}

		if req.NewParentID != "" {
			subtree, err := hierarchy.BuildTree(reader, rec.ID, s.limits.MaxHierarchyDepth)
			if err != nil {
				return err
			}
			if parentDepth+1+height(subtree) > s.limits.MaxHierarchyDepth {
				return tgerrors.InvalidHierarchy("moving %s under %s would exceed the maximum depth of %d",
					rec.ID, req.NewParentID, s.limits.MaxHierarchyDepth)
			}
		}

		maxPos, err := repos.Items().MaxPosition(ctx, rec.ListID, req.NewParentID)
		if err != nil {
			return err
		}
		if err := repos.Items().UpdateParent(ctx, rec.ID, req.NewParentID, maxPos+1); err != nil {
			return err
		}
		if err := repos.Log().LogUpdate(ctx, rec.ID, "parent_id", rec.ParentID, req.NewParentID); err != nil {
			return err
		}

		if _, _, err := s.rederive(ctx, repos, rec.ParentID); err != nil {
			return err
		}
		if _, _, err := s.rederive(ctx, repos, req.NewParentID); err != nil {
			return err
		}

		moved, err := repos.Items().GetByID(ctx, rec.ID)
		if err != nil {
			return err
		}
		s.logger.Debug("item reparented", "item_id", rec.ID, "from", rec.ParentID, "to", req.NewParentID)
		item, err = recordToItem(moved)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetHierarchy returns a snapshot of the subtree rooted at itemID.
func (s *HierarchyServiceImpl) GetHierarchy(ctx context.Context, itemID string) (*primary.HierarchyNode, error) {
	var root *primary.HierarchyNode
	err := s.read(ctx, "get_hierarchy", func(ctx context.Context, repos secondary.Repositories) error {
		reader := newTreeReader(ctx, repos.Items())
		tree, err := hierarchy.BuildTree(reader, itemID, s.limits.MaxHierarchyDepth)
		if err != nil {
			return err
		}

		converted := make(map[*hierarchy.TreeNode]*primary.HierarchyNode, len(reader.records))
		for n := range tree.All() {
			item, err := recordToItem(reader.records[n.ID])
			if err != nil {
				return err
			}
			converted[n] = &primary.HierarchyNode{Item: item, Depth: n.Depth}
		}
		for n := range tree.All() {
			for _, c := range n.Children {
				converted[n].Children = append(converted[n].Children, converted[c])
			}
		}
		root = converted[tree]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

// height returns the number of levels below the root of t.
func height(t *hierarchy.TreeNode) int {
	h := 0
	for n := range t.All() {
		h = max(h, n.Depth-t.Depth)
	}
	return h
}

func requireActiveList(ctx context.Context, repos secondary.Repositories, listID string) error {
	list, err := repos.Lists().GetByID(ctx, listID)
	if err != nil {
		return err
	}
	if list.Status == models.ListStatusArchived {
		return tgerrors.Validation("list %s is archived", list.Key)
	}
	return nil
}

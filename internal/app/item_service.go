package app

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/example/taskgraph/internal/core/hierarchy"
	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/models"
	"github.com/example/taskgraph/internal/ports/primary"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// ItemServiceImpl implements the ItemService interface.
type ItemServiceImpl struct {
	runner
}

var _ primary.ItemService = (*ItemServiceImpl)(nil)

// NewItemService creates a new ItemService backed by store.
func NewItemService(store secondary.Store, opts Options) *ItemServiceImpl {
	return &ItemServiceImpl{runner: newRunner(store, opts)}
}

// CreateItem creates a top-level item in a list.
func (s *ItemServiceImpl) CreateItem(ctx context.Context, req primary.CreateItemRequest) (*primary.Item, error) {
	if err := validateKey(req.Key); err != nil {
		return nil, tagOp(err, "create_item")
	}

	var item *primary.Item
	err := s.write(ctx, "create_item", func(ctx context.Context, repos secondary.Repositories) error {
		list, err := resolveList(ctx, repos.Lists(), req.ListID)
		if err != nil {
			return err
		}
		if list.Status == models.ListStatusArchived {
			return tgerrors.Validation("list %s is archived", list.Key)
		}

		taken, err := keyTaken(ctx, repos.Items(), list.ID, "", req.Key, "")
		if err != nil {
			return err
		}
		if taken {
			return tgerrors.AlreadyExists("item key", req.Key)
		}

		created, err := s.insertItem(ctx, repos, list.ID, "", req.Key, req.Content, req.Position)
		if err != nil {
			return err
		}
		item, err = recordToItem(created)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem retrieves an item by ID.
func (s *ItemServiceImpl) GetItem(ctx context.Context, itemID string) (*primary.Item, error) {
	var item *primary.Item
	err := s.read(ctx, "get_item", func(ctx context.Context, repos secondary.Repositories) error {
		rec, err := repos.Items().GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		item, err = recordToItem(rec)
		return err
	})
	return item, err
}

// ListItems lists items with optional filters.
func (s *ItemServiceImpl) ListItems(ctx context.Context, filters primary.ItemFilters) ([]*primary.Item, error) {
	if filters.Status != "" && !models.IsValidItemStatus(filters.Status) {
		return nil, tgerrors.Validation("unknown status %q", filters.Status).WithOp("list_items")
	}

	var items []*primary.Item
	err := s.read(ctx, "list_items", func(ctx context.Context, repos secondary.Repositories) error {
		repoFilters := secondary.ItemFilters{Status: filters.Status, TopLevel: filters.TopLevel}
		if filters.ListID != "" {
			list, err := resolveList(ctx, repos.Lists(), filters.ListID)
			if err != nil {
				return err
			}
			repoFilters.ListIDs = []string{list.ID}
		}

		records, err := repos.Items().List(ctx, repoFilters)
		if err != nil {
			return err
		}
		items = make([]*primary.Item, len(records))
		for i, r := range records {
			if items[i], err = recordToItem(r); err != nil {
				return err
			}
		}
		return nil
	})
	return items, err
}

// UpdateStatus sets an item's status and re-derives the completion of its ancestors.
func (s *ItemServiceImpl) UpdateStatus(ctx context.Context, req primary.UpdateStatusRequest) (*primary.StatusChange, error) {
	var change *primary.StatusChange
	err := s.write(ctx, "update_status", func(ctx context.Context, repos secondary.Repositories) error {
		guardCtx := hierarchy.StatusChangeContext{ItemID: req.ItemID, NewStatus: req.Status}

		rec, err := repos.Items().GetByID(ctx, req.ItemID)
		switch {
		case err == nil:
			guardCtx.ItemExists = true
			children, err := repos.Items().GetChildren(ctx, rec.ID)
			if err != nil {
				return err
			}
			guardCtx.ChildCount = len(children)
			guardCtx.IncompleteChildCount = incompleteCount(children)
		case !tgerrors.Is(err, tgerrors.ErrNotFound):
			return err
		}

		if err := hierarchy.CanChangeStatus(guardCtx).Error(); err != nil {
			return err
		}

		changed, err := s.setStatus(ctx, repos, rec.ID, req.Status)
		if err != nil {
			return err
		}
		completed, reopened, err := s.rederive(ctx, repos, rec.ParentID)
		if err != nil {
			return err
		}

		updated, err := repos.Items().GetByID(ctx, rec.ID)
		if err != nil {
			return err
		}
		if changed {
			s.logger.Debug("status updated", "item_id", rec.ID, "from", rec.Status, "to", req.Status,
				"auto_completed", len(completed), "reopened", len(reopened))
		}
		item, err := recordToItem(updated)
		if err != nil {
			return err
		}
		change = &primary.StatusChange{
			Item:          item,
			Changed:       changed,
			AutoCompleted: completed,
			Reopened:      reopened,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

// DeleteItem deletes an item and every edge touching it. The subtree goes
// with it unless ReparentChildren is set, in which case the direct children
// move to the item's parent.
func (s *ItemServiceImpl) DeleteItem(ctx context.Context, req primary.DeleteItemRequest) (*primary.DeleteResult, error) {
	result := &primary.DeleteResult{}
	err := s.write(ctx, "delete_item", func(ctx context.Context, repos secondary.Repositories) error {
		rec, err := repos.Items().GetByID(ctx, req.ItemID)
		if err != nil {
			return err
		}

		if req.ReparentChildren {
			moved, err := s.promoteChildren(ctx, repos, rec)
			if err != nil {
				return err
			}
			result.Reparented = moved
			if err := s.deleteOne(ctx, repos, rec.ID); err != nil {
				return err
			}
			result.Deleted = []string{rec.ID}
		} else {
			tree, err := hierarchy.BuildTree(newTreeReader(ctx, repos.Items()), rec.ID, s.limits.MaxHierarchyDepth)
			if err != nil {
				return err
			}
			var order []string
			for n := range tree.All() {
				order = append(order, n.ID)
			}
			slices.Reverse(order)
			for _, id := range order {
				if err := s.deleteOne(ctx, repos, id); err != nil {
					return err
				}
			}
			result.Deleted = order
		}

		completed, _, err := s.rederive(ctx, repos, rec.ParentID)
		if err != nil {
			return err
		}
		result.AutoCompleted = completed

		s.logger.Debug("item deleted", "item_id", rec.ID, "deleted", len(result.Deleted), "reparented", len(result.Reparented))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// promoteChildren moves the direct children of rec to rec's parent,
// appended after the existing siblings.
func (s *ItemServiceImpl) promoteChildren(ctx context.Context, repos secondary.Repositories, rec *secondary.ItemRecord) ([]string, error) {
	children, err := repos.Items().GetChildren(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, nil
	}

	freeOwnKey := false
	for _, c := range children {
		taken, err := keyTaken(ctx, repos.Items(), rec.ListID, rec.ParentID, c.Key, rec.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, tgerrors.AlreadyExists("item key", c.Key)
		}
		if c.Key == rec.Key {
			freeOwnKey = true
		}
	}
	if freeOwnKey {
		// A child is about to take this item's key under the same parent, and
		// idx_items_child_key / idx_items_top_key reject the pair while both rows
		// exist. The item cannot be deleted first: its children would cascade.
		// Park it under a NUL-prefixed key no user key can contain.
		if err := repos.Items().UpdateKey(ctx, rec.ID, "\x00deleted:"+rec.ID); err != nil {
			return nil, err
		}
	}

	maxPos, err := repos.Items().MaxPosition(ctx, rec.ListID, rec.ParentID)
	if err != nil {
		return nil, err
	}
	moved := make([]string, 0, len(children))
	for i, c := range children {
		if err := repos.Items().UpdateParent(ctx, c.ID, rec.ParentID, maxPos+1+i); err != nil {
			return nil, err
		}
		if err := repos.Log().LogUpdate(ctx, c.ID, "parent_id", rec.ID, rec.ParentID); err != nil {
			return nil, err
		}
		moved = append(moved, c.ID)
	}
	return moved, nil
}

// SetCompletionState sets or, with a nil value, clears one completion flag.
func (s *ItemServiceImpl) SetCompletionState(ctx context.Context, req primary.SetCompletionStateRequest) (*primary.Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, tgerrors.Validation("completion state name must not be empty").WithOp("set_completion_state")
	}
	switch req.Value.(type) {
	case nil, bool, string:
	default:
		return nil, tgerrors.Validation("completion state %q must be a bool or a string, got %T", req.Name, req.Value).
			WithOp("set_completion_state")
	}

	var item *primary.Item
	err := s.write(ctx, "set_completion_state", func(ctx context.Context, repos secondary.Repositories) error {
		rec, err := repos.Items().GetByID(ctx, req.ItemID)
		if err != nil {
			return err
		}

		states, err := decodeStates(rec)
		if err != nil {
			return err
		}
		old, hadOld := states[req.Name]
		if req.Value == nil {
			delete(states, req.Name)
		} else {
			states[req.Name] = req.Value
		}

		encoded := ""
		if len(states) > 0 {
			b, err := json.Marshal(states)
			if err != nil {
				return fmt.Errorf("failed to encode completion states: %w", err)
			}
			encoded = string(b)
		}
		if err := repos.Items().UpdateCompletionStates(ctx, rec.ID, encoded); err != nil {
			return err
		}
		if err := repos.Log().LogUpdate(ctx, rec.ID, "state:"+req.Name, stateString(old, hadOld), stateString(req.Value, req.Value != nil)); err != nil {
			return err
		}

		updated, err := repos.Items().GetByID(ctx, rec.ID)
		if err != nil {
			return err
		}
		item, err = recordToItem(updated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func stateString(v any, ok bool) string {
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

// RenameItem changes an item's key.
func (s *ItemServiceImpl) RenameItem(ctx context.Context, itemID, newKey string) (*primary.Item, error) {
	if err := validateKey(newKey); err != nil {
		return nil, tagOp(err, "rename_item")
	}

	var item *primary.Item
	err := s.write(ctx, "rename_item", func(ctx context.Context, repos secondary.Repositories) error {
		rec, err := repos.Items().GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if rec.Key != newKey {
			taken, err := keyTaken(ctx, repos.Items(), rec.ListID, rec.ParentID, newKey, rec.ID)
			if err != nil {
				return err
			}
			if taken {
				return tgerrors.AlreadyExists("item key", newKey)
			}
			if err := repos.Items().UpdateKey(ctx, rec.ID, newKey); err != nil {
				return err
			}
			if err := repos.Log().LogUpdate(ctx, rec.ID, "key", rec.Key, newKey); err != nil {
				return err
			}
		}

		updated, err := repos.Items().GetByID(ctx, rec.ID)
		if err != nil {
			return err
		}
		item, err = recordToItem(updated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/taskgraph/internal/core/dependency"
	"github.com/example/taskgraph/internal/core/hierarchy"
	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/models"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// Mutation helpers shared by the services. All of them run inside the
// caller's transaction and record history through repos.Log().

// insertItem creates an item at position, or after the last sibling when position is 0.
func (r runner) insertItem(ctx context.Context, repos secondary.Repositories, listID, parentID, key, content string, position int) (*secondary.ItemRecord, error) {
	if position <= 0 {
		maxPos, err := repos.Items().MaxPosition(ctx, listID, parentID)
		if err != nil {
			return nil, err
		}
		position = maxPos + 1
	}

	id, err := repos.Items().GetNextID(ctx)
	if err != nil {
		return nil, err
	}

	record := &secondary.ItemRecord{
		ID:       id,
		ListID:   listID,
		ParentID: parentID,
		Key:      key,
		Content:  content,
		Status:   models.ItemStatusPending,
		Position: position,
	}
	if err := repos.Items().Create(ctx, record); err != nil {
		return nil, err
	}
	if err := repos.Log().LogCreate(ctx, id); err != nil {
		return nil, err
	}
	return repos.Items().GetByID(ctx, id)
}

// keyTaken reports whether key is used under (list, parent) by an item other than selfID.
func keyTaken(ctx context.Context, items secondary.ItemRepository, listID, parentID, key, selfID string) (bool, error) {
	existing, err := items.GetByKey(ctx, listID, parentID, key)
	if tgerrors.Is(err, tgerrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != selfID, nil
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return tgerrors.Validation("key must not be empty")
	}
	if strings.ContainsRune(key, 0) {
		return tgerrors.Validation("key must not contain NUL")
	}
	return nil
}

// setStatus writes a status change and its history row. It reports false
// and writes nothing when the item already has the status.
func (r runner) setStatus(ctx context.Context, repos secondary.Repositories, id, status string) (bool, error) {
	rec, err := repos.Items().GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if rec.Status == status {
		return false, nil
	}
	if err := repos.Items().UpdateStatus(ctx, id, status); err != nil {
		return false, err
	}
	if err := repos.Log().LogUpdate(ctx, id, "status", rec.Status, status); err != nil {
		return false, err
	}
	return true, nil
}

// rederive restores the derived completion of parentID and its ancestors
// after parentID's children changed. A parent whose children are all
// completed becomes completed, walking up; a completed parent with an
// incomplete child goes back to in_progress, walking up. A parent left
// without children keeps its status.
func (r runner) rederive(ctx context.Context, repos secondary.Repositories, parentID string) (completed, reopened []string, err error) {
	if parentID == "" {
		return nil, nil, nil
	}

	children, err := repos.Items().GetChildren(ctx, parentID)
	if err != nil {
		return nil, nil, err
	}
	if len(children) == 0 {
		return nil, nil, nil
	}

	reader := newTreeReader(ctx, repos.Items())
	if incompleteCount(children) > 0 {
		plan, err := hierarchy.PlanReopen(reader, parentID, r.limits.MaxHierarchyDepth)
		if err != nil {
			return nil, nil, err
		}
		for _, id := range plan {
			if _, err := r.setStatus(ctx, repos, id, models.ItemStatusInProgress); err != nil {
				return nil, nil, err
			}
		}
		return nil, plan, nil
	}

	plan, err := hierarchy.PlanCompletion(reader, parentID, r.limits.MaxHierarchyDepth)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range plan {
		if _, err := r.setStatus(ctx, repos, id, models.ItemStatusCompleted); err != nil {
			return nil, nil, err
		}
	}
	return plan, nil, nil
}

func incompleteCount(children []*secondary.ItemRecord) int {
	n := 0
	for _, c := range children {
		if c.Status != models.ItemStatusCompleted {
			n++
		}
	}
	return n
}

// deleteOne removes an item, its edges and records the deletion.
func (r runner) deleteOne(ctx context.Context, repos secondary.Repositories, id string) error {
	if err := repos.Dependencies().DeleteForItem(ctx, id); err != nil {
		return err
	}
	if err := repos.Log().LogDelete(ctx, id); err != nil {
		return err
	}
	return repos.Items().Delete(ctx, id)
}

// blockersOf returns the IDs of the item's non-completed ordering prerequisites.
func blockersOf(ctx context.Context, repos secondary.Repositories, itemID string) ([]string, error) {
	out, err := repos.Dependencies().ListOutgoing(ctx, itemID)
	if err != nil {
		return nil, err
	}

	edges := make([]dependency.Edge, 0, len(out))
	for _, e := range out {
		if !models.IsOrderingDependency(e.Type) {
			continue
		}
		required, err := repos.Items().GetByID(ctx, e.RequiredID)
		if tgerrors.Is(err, tgerrors.ErrNotFound) {
			return nil, tgerrors.ConsistencyViolation("edge %s -> %s points at a missing item", itemID, e.RequiredID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load prerequisite: %w", err)
		}
		edges = append(edges, dependency.Edge{RequiredID: e.RequiredID, Type: e.Type, RequiredStatus: required.Status})
	}
	return dependency.Blockers(edges), nil
}

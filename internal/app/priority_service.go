package app

import (
	"context"

	"github.com/example/taskgraph/internal/core/priority"
	"github.com/example/taskgraph/internal/models"
	"github.com/example/taskgraph/internal/ports/primary"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// PriorityServiceImpl implements the PriorityService interface.
type PriorityServiceImpl struct {
	runner
}

var _ primary.PriorityService = (*PriorityServiceImpl)(nil)

// NewPriorityService creates a new PriorityService backed by store.
func NewPriorityService(store secondary.Store, opts Options) *PriorityServiceImpl {
	return &PriorityServiceImpl{runner: newRunner(store, opts)}
}

// GetNextPending picks the next item to work on within scope. Work already
// started is resumed before new top-level work is picked up.
func (s *PriorityServiceImpl) GetNextPending(ctx context.Context, scope primary.Scope) (*primary.NextPending, error) {
	var next *primary.NextPending
	err := s.read(ctx, "get_next_pending", func(ctx context.Context, repos secondary.Repositories) error {
		lists, err := resolveScope(ctx, repos.Lists(), scope)
		if err != nil {
			return err
		}
		if len(lists) == 0 {
			next = &primary.NextPending{Phase: string(priority.PhaseNone)}
			return nil
		}
		ids := listIDs(lists)

		all, err := repos.Items().List(ctx, secondary.ItemFilters{ListIDs: ids})
		if err != nil {
			return err
		}

		parents, err := repos.Items().List(ctx, secondary.ItemFilters{
			ListIDs:     ids,
			Status:      models.ItemStatusInProgress,
			HasChildren: true,
		})
		if err != nil {
			return err
		}
		var resume []priority.Candidate
		for _, p := range parents {
			children, err := repos.Items().GetChildren(ctx, p.ID)
			if err != nil {
				return err
			}
			cands, err := candidates(ctx, repos, children)
			if err != nil {
				return err
			}
			resume = append(resume, cands...)
		}

		top, err := repos.Items().List(ctx, secondary.ItemFilters{
			ListIDs:  ids,
			Status:   models.ItemStatusPending,
			TopLevel: true,
		})
		if err != nil {
			return err
		}
		topLevel, err := candidates(ctx, repos, top)
		if err != nil {
			return err
		}

		sel := priority.Select(resume, topLevel)
		next = &primary.NextPending{Phase: string(sel.Phase), ScopeItemCount: len(all)}
		if sel.Found() {
			for _, r := range all {
				if r.ID == sel.ItemID {
					item, err := recordToItem(r)
					if err != nil {
						return err
					}
					next.Item = item
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// candidates converts the pending records to selector candidates.
func candidates(ctx context.Context, repos secondary.Repositories, records []*secondary.ItemRecord) ([]priority.Candidate, error) {
	var out []priority.Candidate
	for _, r := range records {
		if r.Status != models.ItemStatusPending {
			continue
		}
		blockers, err := blockersOf(ctx, repos, r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, priority.Candidate{
			ID:       r.ID,
			Key:      r.Key,
			Position: r.Position,
			Blocked:  len(blockers) > 0,
		})
	}
	return out, nil
}

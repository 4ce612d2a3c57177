package app

import (
	"context"

	"github.com/example/taskgraph/internal/core/progress"
	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/models"
	"github.com/example/taskgraph/internal/ports/primary"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// ProgressServiceImpl implements the ProgressService interface.
type ProgressServiceImpl struct {
	runner
}

var _ primary.ProgressService = (*ProgressServiceImpl)(nil)

// NewProgressService creates a new ProgressService backed by store.
func NewProgressService(store secondary.Store, opts Options) *ProgressServiceImpl {
	return &ProgressServiceImpl{runner: newRunner(store, opts)}
}

// GetProgress aggregates progress over the lists in scope.
func (s *ProgressServiceImpl) GetProgress(ctx context.Context, scope primary.Scope) (*primary.Progress, error) {
	var result *primary.Progress
	err := s.read(ctx, "get_progress", func(ctx context.Context, repos secondary.Repositories) error {
		lists, err := resolveScope(ctx, repos.Lists(), scope)
		if err != nil {
			return err
		}
		result, err = aggregate(ctx, repos, lists)
		return err
	})
	return result, err
}

// GetProjectProgress aggregates progress over the active lists of a project.
func (s *ProgressServiceImpl) GetProjectProgress(ctx context.Context, project string) (*primary.Progress, error) {
	var result *primary.Progress
	err := s.read(ctx, "get_project_progress", func(ctx context.Context, repos secondary.Repositories) error {
		lists, err := repos.Lists().List(ctx, secondary.ListFilters{Status: models.ListStatusActive, Project: project})
		if err != nil {
			return err
		}
		if len(lists) == 0 {
			return tgerrors.NotFound("project", project)
		}
		result, err = aggregate(ctx, repos, lists)
		return err
	})
	return result, err
}

func aggregate(ctx context.Context, repos secondary.Repositories, lists []*secondary.ListRecord) (*primary.Progress, error) {
	result := &primary.Progress{Lists: []*primary.ListProgress{}}
	var total progress.Tally

	for _, l := range lists {
		records, err := repos.Items().List(ctx, secondary.ItemFilters{ListIDs: []string{l.ID}})
		if err != nil {
			return nil, err
		}

		var tally progress.Tally
		for _, r := range records {
			blockers, err := blockersOf(ctx, repos, r.ID)
			if err != nil {
				return nil, err
			}
			tally.Add(progress.ItemState{Status: r.Status, Blocked: len(blockers) > 0})
		}

		total = total.Merge(tally)
		result.Lists = append(result.Lists, &primary.ListProgress{
			ListID:  l.ID,
			ListKey: l.Key,
			Stats:   toStats(tally),
		})
	}

	result.Stats = toStats(total)
	return result, nil
}

func toStats(t progress.Tally) primary.ProgressStats {
	return primary.ProgressStats{
		Total:                t.Total,
		Pending:              t.Pending,
		InProgress:           t.InProgress,
		Completed:            t.Completed,
		Failed:               t.Failed,
		Blocked:              t.Blocked,
		Available:            t.Available,
		CompletionPercentage: t.Percentage(),
	}
}

package app

import (
	"context"
	"strings"

	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/models"
	"github.com/example/taskgraph/internal/ports/primary"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// ListServiceImpl implements the ListService interface.
type ListServiceImpl struct {
	runner
}

var _ primary.ListService = (*ListServiceImpl)(nil)

// NewListService creates a new ListService backed by store.
func NewListService(store secondary.Store, opts Options) *ListServiceImpl {
	return &ListServiceImpl{runner: newRunner(store, opts)}
}

// CreateList creates a new active list.
func (s *ListServiceImpl) CreateList(ctx context.Context, req primary.CreateListRequest) (*primary.List, error) {
	if strings.TrimSpace(req.Key) == "" {
		return nil, tgerrors.Validation("list key must not be empty").WithOp("create_list")
	}

	var list *primary.List
	err := s.write(ctx, "create_list", func(ctx context.Context, repos secondary.Repositories) error {
		id, err := repos.Lists().GetNextID(ctx)
		if err != nil {
			return err
		}
		record := &secondary.ListRecord{
			ID:      id,
			Key:     req.Key,
			Title:   req.Title,
			Project: req.Project,
			Status:  models.ListStatusActive,
		}
		if err := repos.Lists().Create(ctx, record); err != nil {
			return err
		}
		created, err := repos.Lists().GetByID(ctx, id)
		if err != nil {
			return err
		}
		list = recordToList(created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// GetList retrieves a list by ID or key.
func (s *ListServiceImpl) GetList(ctx context.Context, idOrKey string) (*primary.List, error) {
	var list *primary.List
	err := s.read(ctx, "get_list", func(ctx context.Context, repos secondary.Repositories) error {
		rec, err := resolveList(ctx, repos.Lists(), idOrKey)
		if err != nil {
			return err
		}
		list = recordToList(rec)
		return nil
	})
	return list, err
}

// ListLists lists lists with optional filters.
func (s *ListServiceImpl) ListLists(ctx context.Context, filters primary.ListFilters) ([]*primary.List, error) {
	var lists []*primary.List
	err := s.read(ctx, "list_lists", func(ctx context.Context, repos secondary.Repositories) error {
		records, err := repos.Lists().List(ctx, secondary.ListFilters{Status: filters.Status, Project: filters.Project})
		if err != nil {
			return err
		}
		lists = make([]*primary.List, len(records))
		for i, r := range records {
			lists[i] = recordToList(r)
		}
		return nil
	})
	return lists, err
}

// ArchiveList archives a list. Its items are kept.
func (s *ListServiceImpl) ArchiveList(ctx context.Context, idOrKey string) error {
	return s.write(ctx, "archive_list", func(ctx context.Context, repos secondary.Repositories) error {
		rec, err := resolveList(ctx, repos.Lists(), idOrKey)
		if err != nil {
			return err
		}
		if rec.Status == models.ListStatusArchived {
			return nil
		}
		return repos.Lists().UpdateStatus(ctx, rec.ID, models.ListStatusArchived)
	})
}

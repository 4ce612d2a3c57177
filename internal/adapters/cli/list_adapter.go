// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/taskgraph/internal/ports/primary"
)

// ListAdapter is a thin adapter that translates CLI operations to ListService calls.
type ListAdapter struct {
	service primary.ListService
	out     io.Writer
}

// NewListAdapter creates a new ListAdapter with the given service.
func NewListAdapter(service primary.ListService, out io.Writer) *ListAdapter {
	return &ListAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new list.
func (a *ListAdapter) Create(ctx context.Context, key, title, project string) error {
	list, err := a.service.CreateList(ctx, primary.CreateListRequest{
		Key:     key,
		Title:   title,
		Project: project,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Created list %s (%s)\n", checkMark(), list.Key, list.ID)
	if list.Project != "" {
		fmt.Fprintf(a.out, "  Project: %s\n", list.Project)
	}
	return nil
}

// List lists lists with optional filters.
func (a *ListAdapter) List(ctx context.Context, status, project string) error {
	lists, err := a.service.ListLists(ctx, primary.ListFilters{Status: status, Project: project})
	if err != nil {
		return err
	}

	if len(lists) == 0 {
		fmt.Fprintln(a.out, "No lists found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-20s %-10s %-12s %s\n", "ID", "KEY", "STATUS", "PROJECT", "TITLE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, l := range lists {
		fmt.Fprintf(a.out, "%-10s %-20s %-10s %-12s %s\n", l.ID, l.Key, l.Status, l.Project, l.Title)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Archive archives a list.
func (a *ListAdapter) Archive(ctx context.Context, idOrKey string) error {
	if err := a.service.ArchiveList(ctx, idOrKey); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s List %s archived\n", checkMark(), idOrKey)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/taskgraph/internal/ports/primary"
)

// ProgressAdapter renders next-item selection, progress and history.
type ProgressAdapter struct {
	priority primary.PriorityService
	progress primary.ProgressService
	history  primary.HistoryService
	out      io.Writer
}

// NewProgressAdapter creates a new ProgressAdapter.
func NewProgressAdapter(priority primary.PriorityService, progress primary.ProgressService, history primary.HistoryService, out io.Writer) *ProgressAdapter {
	return &ProgressAdapter{
		priority: priority,
		progress: progress,
		history:  history,
		out:      out,
	}
}

// Next prints the item to work on next.
func (a *ProgressAdapter) Next(ctx context.Context, listIDs []string) error {
	next, err := a.priority.GetNextPending(ctx, primary.Scope{ListIDs: listIDs})
	if err != nil {
		return err
	}

	if !next.Found() {
		if next.ScopeItemCount == 0 {
			fmt.Fprintln(a.out, "No items in scope")
			return nil
		}
		fmt.Fprintf(a.out, "Nothing available: all %d item(s) are done, started or blocked\n", next.ScopeItemCount)
		return nil
	}

	fmt.Fprintf(a.out, "→ %s %s (%s)\n", next.Item.ID, next.Item.Key, next.Phase)
	if next.Item.Content != "" {
		fmt.Fprintf(a.out, "  %s\n", next.Item.Content)
	}
	return nil
}

// Progress prints progress over lists, or over a project when project is set.
func (a *ProgressAdapter) Progress(ctx context.Context, listIDs []string, project string) error {
	var (
		p   *primary.Progress
		err error
	)
	if project != "" {
		p, err = a.progress.GetProjectProgress(ctx, project)
	} else {
		p, err = a.progress.GetProgress(ctx, primary.Scope{ListIDs: listIDs})
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n%-20s %6s %6s %6s %6s %6s %6s %6s %7s\n",
		"LIST", "TOTAL", "PEND", "WIP", "DONE", "FAIL", "BLOCK", "AVAIL", "DONE%")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────")
	for _, l := range p.Lists {
		printStatsRow(a.out, l.ListKey, l.Stats)
	}
	if len(p.Lists) > 1 {
		printStatsRow(a.out, "(all)", p.Stats)
	}
	fmt.Fprintln(a.out)
	return nil
}

func printStatsRow(out io.Writer, label string, s primary.ProgressStats) {
	fmt.Fprintf(out, "%-20s %6d %6d %6d %6d %6d %6d %6d %6.1f%%\n",
		label, s.Total, s.Pending, s.InProgress, s.Completed, s.Failed, s.Blocked, s.Available, s.CompletionPercentage)
}

// History prints an item's history, newest first.
func (a *ProgressAdapter) History(ctx context.Context, itemID string, limit int) error {
	entries, err := a.history.GetHistory(ctx, itemID, limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintf(a.out, "No history for %s\n", itemID)
		return nil
	}

	for _, e := range entries {
		change := e.Action
		if e.FieldName != "" {
			change = fmt.Sprintf("%s: %q → %q", e.FieldName, e.OldValue, e.NewValue)
		}
		actor := e.ActorID
		if actor == "" {
			actor = "-"
		}
		fmt.Fprintf(a.out, "%s  %-12s %s %s\n", e.CreatedAt, actor, change, dim(e.OperationID))
	}
	return nil
}

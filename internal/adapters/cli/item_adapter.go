package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/example/taskgraph/internal/ports/primary"
)

// ItemAdapter translates item and hierarchy commands to service calls.
type ItemAdapter struct {
	items     primary.ItemService
	hierarchy primary.HierarchyService
	out       io.Writer
}

// NewItemAdapter creates a new ItemAdapter.
func NewItemAdapter(items primary.ItemService, hierarchy primary.HierarchyService, out io.Writer) *ItemAdapter {
	return &ItemAdapter{
		items:     items,
		hierarchy: hierarchy,
		out:       out,
	}
}

// Add creates a top-level item.
func (a *ItemAdapter) Add(ctx context.Context, listID, key, content string, position int) error {
	item, err := a.items.CreateItem(ctx, primary.CreateItemRequest{
		ListID:   listID,
		Key:      key,
		Content:  content,
		Position: position,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Created item %s: %s\n", checkMark(), item.ID, item.Key)
	return nil
}

// AddSubtask creates a child item.
func (a *ItemAdapter) AddSubtask(ctx context.Context, parentID, key, content string, position int) error {
	item, err := a.hierarchy.AddSubtask(ctx, primary.AddSubtaskRequest{
		ParentID: parentID,
		Key:      key,
		Content:  content,
		Position: position,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Created subtask %s: %s\n", checkMark(), item.ID, item.Key)
	fmt.Fprintf(a.out, "  Under: %s\n", item.ParentID)
	return nil
}

// Show displays one item.
func (a *ItemAdapter) Show(ctx context.Context, itemID string) error {
	item, err := a.items.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nItem:     %s\n", item.ID)
	fmt.Fprintf(a.out, "Key:      %s\n", item.Key)
	fmt.Fprintf(a.out, "List:     %s\n", item.ListID)
	if item.ParentID != "" {
		fmt.Fprintf(a.out, "Parent:   %s\n", item.ParentID)
	}
	fmt.Fprintf(a.out, "Status:   %s\n", statusLabel(item.Status))
	fmt.Fprintf(a.out, "Position: %d\n", item.Position)
	if item.Content != "" {
		fmt.Fprintf(a.out, "Content:  %s\n", item.Content)
	}
	if len(item.CompletionStates) > 0 {
		fmt.Fprintln(a.out, "States:")
		for _, name := range slices.Sorted(maps.Keys(item.CompletionStates)) {
			fmt.Fprintf(a.out, "  %s = %v\n", name, item.CompletionStates[name])
		}
	}
	fmt.Fprintf(a.out, "Created:  %s\n", item.CreatedAt)
	if item.CompletedAt != "" {
		fmt.Fprintf(a.out, "Completed: %s\n", item.CompletedAt)
	}
	fmt.Fprintln(a.out)
	return nil
}

// List lists items.
func (a *ItemAdapter) List(ctx context.Context, listID, status string, topLevel bool) error {
	items, err := a.items.ListItems(ctx, primary.ItemFilters{ListID: listID, Status: status, TopLevel: topLevel})
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "No items found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-10s %-20s %-12s %-4s %s\n", "ID", "LIST", "KEY", "STATUS", "POS", "PARENT")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, it := range items {
		fmt.Fprintf(a.out, "%-10s %-10s %-20s %-12s %-4d %s\n", it.ID, it.ListID, it.Key, it.Status, it.Position, it.ParentID)
	}
	fmt.Fprintln(a.out)
	return nil
}

// SetStatus updates an item's status and reports the cascade.
func (a *ItemAdapter) SetStatus(ctx context.Context, itemID, status string) error {
	change, err := a.items.UpdateStatus(ctx, primary.UpdateStatusRequest{ItemID: itemID, Status: status})
	if err != nil {
		return err
	}

	if !change.Changed {
		fmt.Fprintf(a.out, "Item %s is already %s\n", itemID, statusLabel(status))
		return nil
	}
	fmt.Fprintf(a.out, "%s Item %s is now %s\n", checkMark(), itemID, statusLabel(change.Item.Status))
	if len(change.AutoCompleted) > 0 {
		fmt.Fprintf(a.out, "  Auto-completed: %s\n", strings.Join(change.AutoCompleted, ", "))
	}
	if len(change.Reopened) > 0 {
		fmt.Fprintf(a.out, "  Reopened: %s\n", strings.Join(change.Reopened, ", "))
	}
	return nil
}

// SetState sets or clears one completion flag.
func (a *ItemAdapter) SetState(ctx context.Context, itemID, name string, value any) error {
	if _, err := a.items.SetCompletionState(ctx, primary.SetCompletionStateRequest{
		ItemID: itemID,
		Name:   name,
		Value:  value,
	}); err != nil {
		return err
	}

	if value == nil {
		fmt.Fprintf(a.out, "%s Cleared %s on %s\n", checkMark(), name, itemID)
		return nil
	}
	fmt.Fprintf(a.out, "%s Set %s = %v on %s\n", checkMark(), name, value, itemID)
	return nil
}

// Rename changes an item's key.
func (a *ItemAdapter) Rename(ctx context.Context, itemID, key string) error {
	item, err := a.items.RenameItem(ctx, itemID, key)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Item %s renamed to %s\n", checkMark(), item.ID, item.Key)
	return nil
}

// Remove deletes an item.
func (a *ItemAdapter) Remove(ctx context.Context, itemID string, reparentChildren bool) error {
	result, err := a.items.DeleteItem(ctx, primary.DeleteItemRequest{ItemID: itemID, ReparentChildren: reparentChildren})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Deleted %d item(s): %s\n", checkMark(), len(result.Deleted), strings.Join(result.Deleted, ", "))
	if len(result.Reparented) > 0 {
		fmt.Fprintf(a.out, "  Moved up: %s\n", strings.Join(result.Reparented, ", "))
	}
	if len(result.AutoCompleted) > 0 {
		fmt.Fprintf(a.out, "  Auto-completed: %s\n", strings.Join(result.AutoCompleted, ", "))
	}
	return nil
}

// Reparent moves an item.
func (a *ItemAdapter) Reparent(ctx context.Context, itemID, newParentID string) error {
	item, err := a.hierarchy.Reparent(ctx, primary.ReparentRequest{ItemID: itemID, NewParentID: newParentID})
	if err != nil {
		return err
	}

	if item.ParentID == "" {
		fmt.Fprintf(a.out, "%s Item %s moved to top level\n", checkMark(), item.ID)
		return nil
	}
	fmt.Fprintf(a.out, "%s Item %s moved under %s\n", checkMark(), item.ID, item.ParentID)
	return nil
}

// Tree prints the subtree rooted at itemID, or exports it when format is set.
func (a *ItemAdapter) Tree(ctx context.Context, itemID, format string) error {
	root, err := a.hierarchy.GetHierarchy(ctx, itemID)
	if err != nil {
		return err
	}
	if format != "" {
		return ExportHierarchy(a.out, root, format)
	}

	for n := range root.All() {
		indent := strings.Repeat("  ", n.Depth)
		fmt.Fprintf(a.out, "%s- %s [%s] %s\n", indent, n.Item.Key, statusLabel(n.Item.Status), dim(n.Item.ID))
	}
	return nil
}

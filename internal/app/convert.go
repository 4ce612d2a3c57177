package app

import (
	"context"
	"encoding/json"

	"github.com/example/taskgraph/internal/core/hierarchy"
	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/ports/primary"
	"github.com/example/taskgraph/internal/ports/secondary"
)

func recordToList(r *secondary.ListRecord) *primary.List {
	return &primary.List{
		ID:        r.ID,
		Key:       r.Key,
		Title:     r.Title,
		Project:   r.Project,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func recordToItem(r *secondary.ItemRecord) (*primary.Item, error) {
	item := &primary.Item{
		ID:          r.ID,
		ListID:      r.ListID,
		ParentID:    r.ParentID,
		Key:         r.Key,
		Content:     r.Content,
		Status:      r.Status,
		Position:    r.Position,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		CompletedAt: r.CompletedAt,
	}
	if r.CompletionStates != "" {
		states, err := decodeStates(r)
		if err != nil {
			return nil, err
		}
		item.CompletionStates = states
	}
	return item, nil
}

// decodeStates parses the stored completion states of r. An empty column
// decodes to an empty map.
func decodeStates(r *secondary.ItemRecord) (map[string]any, error) {
	states := map[string]any{}
	if r.CompletionStates == "" {
		return states, nil
	}
	if err := json.Unmarshal([]byte(r.CompletionStates), &states); err != nil {
		return nil, tgerrors.ConsistencyViolation("completion states of %s are not valid JSON: %v", r.ID, err)
	}
	return states, nil
}

func recordToDependency(r *secondary.DependencyRecord) *primary.Dependency {
	return &primary.Dependency{
		DependentID: r.DependentID,
		RequiredID:  r.RequiredID,
		Type:        r.Type,
		CreatedAt:   r.CreatedAt,
	}
}

func recordToHistory(r *secondary.HistoryRecord) *primary.HistoryEntry {
	return &primary.HistoryEntry{
		ID:          r.ID,
		OperationID: r.OperationID,
		ItemID:      r.ItemID,
		Action:      r.Action,
		FieldName:   r.FieldName,
		OldValue:    r.OldValue,
		NewValue:    r.NewValue,
		ActorID:     r.ActorID,
		CreatedAt:   r.CreatedAt,
	}
}

func recordToNode(r *secondary.ItemRecord) hierarchy.Node {
	return hierarchy.Node{
		ID:       r.ID,
		ListID:   r.ListID,
		ParentID: r.ParentID,
		Key:      r.Key,
		Content:  r.Content,
		Status:   r.Status,
		Position: r.Position,
	}
}

// treeReader exposes the transaction's item repository to the hierarchy core.
// Every record it reads is kept so callers can build full items afterwards.
type treeReader struct {
	ctx     context.Context
	items   secondary.ItemRepository
	records map[string]*secondary.ItemRecord
}

func newTreeReader(ctx context.Context, items secondary.ItemRepository) *treeReader {
	return &treeReader{ctx: ctx, items: items, records: make(map[string]*secondary.ItemRecord)}
}

func (r *treeReader) Node(id string) (hierarchy.Node, error) {
	rec, err := r.items.GetByID(r.ctx, id)
	if err != nil {
		return hierarchy.Node{}, err
	}
	r.records[rec.ID] = rec
	return recordToNode(rec), nil
}

func (r *treeReader) Children(id string) ([]hierarchy.Node, error) {
	recs, err := r.items.GetChildren(r.ctx, id)
	if err != nil {
		return nil, err
	}
	nodes := make([]hierarchy.Node, len(recs))
	for i, rec := range recs {
		r.records[rec.ID] = rec
		nodes[i] = recordToNode(rec)
	}
	return nodes, nil
}

// resolveList finds a list by ID or key.
func resolveList(ctx context.Context, lists secondary.ListRepository, idOrKey string) (*secondary.ListRecord, error) {
	rec, err := lists.GetByID(ctx, idOrKey)
	if err == nil {
		return rec, nil
	}
	if !tgerrors.Is(err, tgerrors.ErrNotFound) {
		return nil, err
	}
	return lists.GetByKey(ctx, idOrKey)
}

// resolveScope turns list IDs or keys into deduplicated list records.
// An empty scope means every active list.
func resolveScope(ctx context.Context, lists secondary.ListRepository, scope primary.Scope) ([]*secondary.ListRecord, error) {
	if len(scope.ListIDs) == 0 {
		return lists.List(ctx, secondary.ListFilters{Status: "active"})
	}

	seen := make(map[string]bool, len(scope.ListIDs))
	var out []*secondary.ListRecord
	for _, ref := range scope.ListIDs {
		rec, err := resolveList(ctx, lists, ref)
		if err != nil {
			return nil, err
		}
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		out = append(out, rec)
	}
	return out, nil
}

func listIDs(lists []*secondary.ListRecord) []string {
	ids := make([]string, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
	}
	return ids
}

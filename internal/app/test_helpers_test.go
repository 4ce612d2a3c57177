package app

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"testing"

	"github.com/example/taskgraph/internal/adapters/sqlite"
	"github.com/example/taskgraph/internal/ctxutil"
	"github.com/example/taskgraph/internal/db"
	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/models"
	"github.com/example/taskgraph/internal/ports/primary"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// ============================================================================
// In-memory Store
// ============================================================================

const testTimestamp = "2026-01-01 00:00:00"

// memState is everything a memStore persists.
type memState struct {
	lists    map[string]*secondary.ListRecord
	items    map[string]*secondary.ItemRecord
	deps     map[[2]string]*secondary.DependencyRecord
	history  []*secondary.HistoryRecord
	nextList int
	nextItem int
}

func (s *memState) clone() *memState {
	c := &memState{
		lists:    make(map[string]*secondary.ListRecord, len(s.lists)),
		items:    make(map[string]*secondary.ItemRecord, len(s.items)),
		deps:     make(map[[2]string]*secondary.DependencyRecord, len(s.deps)),
		history:  slices.Clone(s.history),
		nextList: s.nextList,
		nextItem: s.nextItem,
	}
	for k, v := range s.lists {
		cp := *v
		c.lists[k] = &cp
	}
	for k, v := range s.items {
		cp := *v
		c.items[k] = &cp
	}
	for k, v := range s.deps {
		cp := *v
		c.deps[k] = &cp
	}
	return c
}

// memStore implements secondary.Store in memory. A failed WithTx restores
// the state from before the transaction.
type memStore struct {
	state *memState

	// failStatusFor makes UpdateStatus fail for the given item ID.
	failStatusFor string
	txCount       int
}

var _ secondary.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{state: &memState{
		lists: make(map[string]*secondary.ListRecord),
		items: make(map[string]*secondary.ItemRecord),
		deps:  make(map[[2]string]*secondary.DependencyRecord),
	}}
}

func (m *memStore) WithTx(ctx context.Context, fn func(secondary.Repositories) error) error {
	m.txCount++
	snapshot := m.state.clone()
	if err := fn(&memRepos{store: m}); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

func (m *memStore) WithReadTx(ctx context.Context, fn func(secondary.Repositories) error) error {
	snapshot := m.state.clone()
	defer func() { m.state = snapshot }()
	return fn(&memRepos{store: m})
}

type memRepos struct {
	store *memStore
}

func (r *memRepos) Lists() secondary.ListRepository              { return memLists{r.store} }
func (r *memRepos) Items() secondary.ItemRepository              { return memItems{r.store} }
func (r *memRepos) Dependencies() secondary.DependencyRepository { return memDeps{r.store} }
func (r *memRepos) History() secondary.HistoryRepository         { return memHistory{r.store} }
func (r *memRepos) Log() secondary.HistoryWriter                 { return memLog{r.store} }

// --- lists ---

type memLists struct{ m *memStore }

func (l memLists) Create(ctx context.Context, list *secondary.ListRecord) error {
	for _, existing := range l.m.state.lists {
		if existing.Key == list.Key {
			return tgerrors.AlreadyExists("list key", list.Key)
		}
	}
	cp := *list
	cp.CreatedAt, cp.UpdatedAt = testTimestamp, testTimestamp
	l.m.state.lists[cp.ID] = &cp
	return nil
}

func (l memLists) GetByID(ctx context.Context, id string) (*secondary.ListRecord, error) {
	rec, ok := l.m.state.lists[id]
	if !ok {
		return nil, tgerrors.NotFound("list", id)
	}
	cp := *rec
	return &cp, nil
}

func (l memLists) GetByKey(ctx context.Context, key string) (*secondary.ListRecord, error) {
	for _, rec := range l.m.state.lists {
		if rec.Key == key {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, tgerrors.NotFound("list", key)
}

func (l memLists) List(ctx context.Context, filters secondary.ListFilters) ([]*secondary.ListRecord, error) {
	var out []*secondary.ListRecord
	for _, id := range slices.Sorted(maps.Keys(l.m.state.lists)) {
		rec := l.m.state.lists[id]
		if filters.Status != "" && rec.Status != filters.Status {
			continue
		}
		if filters.Project != "" && rec.Project != filters.Project {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (l memLists) UpdateStatus(ctx context.Context, id, status string) error {
	rec, ok := l.m.state.lists[id]
	if !ok {
		return tgerrors.NotFound("list", id)
	}
	rec.Status = status
	return nil
}

func (l memLists) GetNextID(ctx context.Context) (string, error) {
	l.m.state.nextList++
	return fmt.Sprintf("LIST-%03d", l.m.state.nextList), nil
}

// --- items ---

type memItems struct{ m *memStore }

func compareItems(a, b *secondary.ItemRecord) int {
	return cmp.Or(
		cmp.Compare(a.Position, b.Position),
		cmp.Compare(a.Key, b.Key),
		cmp.Compare(a.ID, b.ID),
	)
}

func (it memItems) selectItems(keep func(*secondary.ItemRecord) bool) []*secondary.ItemRecord {
	var out []*secondary.ItemRecord
	for _, rec := range it.m.state.items {
		if keep(rec) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, compareItems)
	return out
}

func (it memItems) keyInUse(listID, parentID, key, selfID string) bool {
	for _, rec := range it.m.state.items {
		if rec.ID != selfID && rec.ListID == listID && rec.ParentID == parentID && rec.Key == key {
			return true
		}
	}
	return false
}

func (it memItems) Create(ctx context.Context, item *secondary.ItemRecord) error {
	if it.keyInUse(item.ListID, item.ParentID, item.Key, item.ID) {
		return tgerrors.AlreadyExists("item key", item.Key)
	}
	cp := *item
	cp.CreatedAt, cp.UpdatedAt = testTimestamp, testTimestamp
	it.m.state.items[cp.ID] = &cp
	return nil
}

func (it memItems) GetByID(ctx context.Context, id string) (*secondary.ItemRecord, error) {
	rec, ok := it.m.state.items[id]
	if !ok {
		return nil, tgerrors.NotFound("item", id)
	}
	cp := *rec
	return &cp, nil
}

func (it memItems) GetByKey(ctx context.Context, listID, parentID, key string) (*secondary.ItemRecord, error) {
	found := it.selectItems(func(r *secondary.ItemRecord) bool {
		return r.ListID == listID && r.ParentID == parentID && r.Key == key
	})
	if len(found) == 0 {
		return nil, tgerrors.NotFound("item", key)
	}
	return found[0], nil
}

func (it memItems) List(ctx context.Context, filters secondary.ItemFilters) ([]*secondary.ItemRecord, error) {
	return it.selectItems(func(r *secondary.ItemRecord) bool {
		if len(filters.ListIDs) > 0 && !slices.Contains(filters.ListIDs, r.ListID) {
			return false
		}
		if filters.Status != "" && r.Status != filters.Status {
			return false
		}
		if filters.TopLevel && r.ParentID != "" {
			return false
		}
		if filters.HasChildren && !it.hasChildren(r.ID) {
			return false
		}
		return true
	}), nil
}

func (it memItems) hasChildren(id string) bool {
	for _, rec := range it.m.state.items {
		if rec.ParentID == id {
			return true
		}
	}
	return false
}

func (it memItems) GetChildren(ctx context.Context, parentID string) ([]*secondary.ItemRecord, error) {
	return it.selectItems(func(r *secondary.ItemRecord) bool { return r.ParentID == parentID }), nil
}

func (it memItems) UpdateStatus(ctx context.Context, id, status string) error {
	if id == it.m.failStatusFor {
		return fmt.Errorf("injected failure updating %s", id)
	}
	rec, ok := it.m.state.items[id]
	if !ok {
		return tgerrors.NotFound("item", id)
	}
	rec.Status = status
	rec.CompletedAt = ""
	if status == models.ItemStatusCompleted {
		rec.CompletedAt = testTimestamp
	}
	return nil
}

func (it memItems) UpdateParent(ctx context.Context, id, parentID string, position int) error {
	rec, ok := it.m.state.items[id]
	if !ok {
		return tgerrors.NotFound("item", id)
	}
	if it.keyInUse(rec.ListID, parentID, rec.Key, id) {
		return tgerrors.AlreadyExists("item key", rec.Key)
	}
	rec.ParentID = parentID
	rec.Position = position
	return nil
}

func (it memItems) UpdateKey(ctx context.Context, id, key string) error {
	rec, ok := it.m.state.items[id]
	if !ok {
		return tgerrors.NotFound("item", id)
	}
	if it.keyInUse(rec.ListID, rec.ParentID, key, id) {
		return tgerrors.AlreadyExists("item key", key)
	}
	rec.Key = key
	return nil
}

func (it memItems) UpdateCompletionStates(ctx context.Context, id, states string) error {
	rec, ok := it.m.state.items[id]
	if !ok {
		return tgerrors.NotFound("item", id)
	}
	rec.CompletionStates = states
	return nil
}

func (it memItems) Delete(ctx context.Context, id string) error {
	if _, ok := it.m.state.items[id]; !ok {
		return tgerrors.NotFound("item", id)
	}
	if it.hasChildren(id) {
		return fmt.Errorf("item %s still has children", id)
	}
	delete(it.m.state.items, id)
	return nil
}

func (it memItems) GetNextID(ctx context.Context) (string, error) {
	it.m.state.nextItem++
	return fmt.Sprintf("ITEM-%03d", it.m.state.nextItem), nil
}

func (it memItems) MaxPosition(ctx context.Context, listID, parentID string) (int, error) {
	maxPos := 0
	for _, rec := range it.m.state.items {
		if rec.ListID == listID && rec.ParentID == parentID {
			maxPos = max(maxPos, rec.Position)
		}
	}
	return maxPos, nil
}

// --- dependencies ---

type memDeps struct{ m *memStore }

func (d memDeps) selectDeps(keep func(*secondary.DependencyRecord) bool) []*secondary.DependencyRecord {
	var out []*secondary.DependencyRecord
	for _, rec := range d.m.state.deps {
		if keep(rec) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *secondary.DependencyRecord) int {
		return cmp.Or(cmp.Compare(a.DependentID, b.DependentID), cmp.Compare(a.RequiredID, b.RequiredID))
	})
	return out
}

func (d memDeps) Create(ctx context.Context, dep *secondary.DependencyRecord) error {
	key := [2]string{dep.DependentID, dep.RequiredID}
	if _, ok := d.m.state.deps[key]; ok {
		return tgerrors.DuplicateDependency("%s already depends on %s", dep.DependentID, dep.RequiredID)
	}
	cp := *dep
	cp.CreatedAt = testTimestamp
	d.m.state.deps[key] = &cp
	return nil
}

func (d memDeps) Get(ctx context.Context, dependentID, requiredID string) (*secondary.DependencyRecord, error) {
	rec, ok := d.m.state.deps[[2]string{dependentID, requiredID}]
	if !ok {
		return nil, tgerrors.NotFound("dependency", dependentID+" -> "+requiredID)
	}
	cp := *rec
	return &cp, nil
}

func (d memDeps) Exists(ctx context.Context, dependentID, requiredID string) (bool, error) {
	_, ok := d.m.state.deps[[2]string{dependentID, requiredID}]
	return ok, nil
}

func (d memDeps) Delete(ctx context.Context, dependentID, requiredID string) error {
	delete(d.m.state.deps, [2]string{dependentID, requiredID})
	return nil
}

func (d memDeps) DeleteForItem(ctx context.Context, itemID string) error {
	for key := range d.m.state.deps {
		if key[0] == itemID || key[1] == itemID {
			delete(d.m.state.deps, key)
		}
	}
	return nil
}

func (d memDeps) ListOutgoing(ctx context.Context, itemID string) ([]*secondary.DependencyRecord, error) {
	return d.selectDeps(func(r *secondary.DependencyRecord) bool { return r.DependentID == itemID }), nil
}

func (d memDeps) ListIncoming(ctx context.Context, itemID string) ([]*secondary.DependencyRecord, error) {
	return d.selectDeps(func(r *secondary.DependencyRecord) bool { return r.RequiredID == itemID }), nil
}

func (d memDeps) ListTouching(ctx context.Context, itemIDs []string) ([]*secondary.DependencyRecord, error) {
	return d.selectDeps(func(r *secondary.DependencyRecord) bool {
		return slices.Contains(itemIDs, r.DependentID) || slices.Contains(itemIDs, r.RequiredID)
	}), nil
}

// --- history ---

type memHistory struct{ m *memStore }

func (h memHistory) Create(ctx context.Context, entry *secondary.HistoryRecord) error {
	cp := *entry
	cp.CreatedAt = testTimestamp
	h.m.state.history = append(h.m.state.history, &cp)
	return nil
}

func (h memHistory) ListByItem(ctx context.Context, itemID string, limit int) ([]*secondary.HistoryRecord, error) {
	var out []*secondary.HistoryRecord
	for i := len(h.m.state.history) - 1; i >= 0; i-- {
		if h.m.state.history[i].ItemID == itemID {
			cp := *h.m.state.history[i]
			out = append(out, &cp)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (h memHistory) ListByOperation(ctx context.Context, operationID string) ([]*secondary.HistoryRecord, error) {
	var out []*secondary.HistoryRecord
	for _, rec := range h.m.state.history {
		if rec.OperationID == operationID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memLog struct{ m *memStore }

func (l memLog) write(ctx context.Context, itemID, action, field, oldValue, newValue string) error {
	return memHistory{l.m}.Create(ctx, &secondary.HistoryRecord{
		ID:          fmt.Sprintf("H-%d", len(l.m.state.history)+1),
		OperationID: ctxutil.OperationFromContext(ctx),
		ItemID:      itemID,
		Action:      action,
		FieldName:   field,
		OldValue:    oldValue,
		NewValue:    newValue,
		ActorID:     ctxutil.ActorFromContext(ctx),
	})
}

func (l memLog) LogCreate(ctx context.Context, itemID string) error {
	return l.write(ctx, itemID, "create", "", "", "")
}

func (l memLog) LogUpdate(ctx context.Context, itemID, field, oldValue, newValue string) error {
	return l.write(ctx, itemID, "update", field, oldValue, newValue)
}

func (l memLog) LogDelete(ctx context.Context, itemID string) error {
	return l.write(ctx, itemID, "delete", "", "", "")
}

// ============================================================================
// Fixtures
// ============================================================================

// services bundles every service over one store.
type services struct {
	lists     *ListServiceImpl
	items     *ItemServiceImpl
	hierarchy *HierarchyServiceImpl
	deps      *DependencyServiceImpl
	priority  *PriorityServiceImpl
	progress  *ProgressServiceImpl
	history   *HistoryServiceImpl
}

func newServices(store secondary.Store, opts Options) *services {
	return &services{
		lists:     NewListService(store, opts),
		items:     NewItemService(store, opts),
		hierarchy: NewHierarchyService(store, opts),
		deps:      NewDependencyService(store, opts),
		priority:  NewPriorityService(store, opts),
		progress:  NewProgressService(store, opts),
		history:   NewHistoryService(store, opts),
	}
}

// newSQLiteStore opens a fresh in-memory database with the full schema.
func newSQLiteStore(t *testing.T) secondary.Store {
	t.Helper()
	database, err := db.Open(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return sqlite.NewStore(database)
}

// forEachStore runs fn once over the in-memory store and once over SQLite.
func forEachStore(t *testing.T, fn func(t *testing.T, svc *services)) {
	t.Helper()
	t.Run("memory", func(t *testing.T) {
		fn(t, newServices(newMemStore(), Options{}))
	})
	t.Run("sqlite", func(t *testing.T) {
		fn(t, newServices(newSQLiteStore(t), Options{}))
	})
}

// mustList creates a list or fails the test.
func mustList(t *testing.T, svc *services, key string) string {
	t.Helper()
	list, err := svc.lists.CreateList(context.Background(), primary.CreateListRequest{Key: key})
	if err != nil {
		t.Fatalf("CreateList(%s) failed: %v", key, err)
	}
	return list.ID
}

// mustItem creates a top-level item or fails the test.
func mustItem(t *testing.T, svc *services, listID, key string, position int) string {
	t.Helper()
	item, err := svc.items.CreateItem(context.Background(), primary.CreateItemRequest{ListID: listID, Key: key, Position: position})
	if err != nil {
		t.Fatalf("CreateItem(%s) failed: %v", key, err)
	}
	return item.ID
}

// mustSubtask creates a child item or fails the test.
func mustSubtask(t *testing.T, svc *services, parentID, key string, position int) string {
	t.Helper()
	item, err := svc.hierarchy.AddSubtask(context.Background(), primary.AddSubtaskRequest{ParentID: parentID, Key: key, Position: position})
	if err != nil {
		t.Fatalf("AddSubtask(%s) failed: %v", key, err)
	}
	return item.ID
}

// mustStatus updates an item's status or fails the test.
func mustStatus(t *testing.T, svc *services, itemID, status string) {
	t.Helper()
	if _, err := svc.items.UpdateStatus(context.Background(), primary.UpdateStatusRequest{ItemID: itemID, Status: status}); err != nil {
		t.Fatalf("UpdateStatus(%s, %s) failed: %v", itemID, status, err)
	}
}

// mustDepend adds an edge or fails the test.
func mustDepend(t *testing.T, svc *services, dependentID, requiredID, depType string) {
	t.Helper()
	if _, err := svc.deps.AddDependency(context.Background(), primary.AddDependencyRequest{DependentID: dependentID, RequiredID: requiredID, Type: depType}); err != nil {
		t.Fatalf("AddDependency(%s, %s) failed: %v", dependentID, requiredID, err)
	}
}

// statusOf reads an item's current status or fails the test.
func statusOf(t *testing.T, svc *services, itemID string) string {
	t.Helper()
	item, err := svc.items.GetItem(context.Background(), itemID)
	if err != nil {
		t.Fatalf("GetItem(%s) failed: %v", itemID, err)
	}
	return item.Status
}

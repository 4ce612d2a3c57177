package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/taskgraph/internal/adapters/sqlite"
	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/ports/secondary"
)

func TestItemRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewItemRepository(db)
	ctx := context.Background()
	seedList(t, db, "LIST-001", "work", "")

	item := &secondary.ItemRecord{
		ID:               "ITEM-001",
		ListID:           "LIST-001",
		Key:              "api",
		Content:          "Ship the API",
		Position:         1,
		CompletionStates: `{"reviewed":true}`,
	}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "ITEM-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != "pending" {
		t.Errorf("expected status pending, got %s", got.Status)
	}
	if got.ParentID != "" {
		t.Errorf("expected top-level item, got parent %s", got.ParentID)
	}
	if got.CompletionStates != `{"reviewed":true}` {
		t.Errorf("CompletionStates = %s", got.CompletionStates)
	}
	if got.CompletedAt != "" {
		t.Errorf("expected no completed_at, got %s", got.CompletedAt)
	}

	byKey, err := repo.GetByKey(ctx, "LIST-001", "", "api")
	if err != nil || byKey.ID != "ITEM-001" {
		t.Errorf("GetByKey = %v, %v", byKey, err)
	}
}

func TestItemRepository_KeyScopedToParent(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewItemRepository(db)
	ctx := context.Background()
	seedList(t, db, "LIST-001", "work", "")
	seedItem(t, db, "ITEM-001", "LIST-001", "", "api", "", 1)
	seedItem(t, db, "ITEM-002", "LIST-001", "", "docs", "", 2)
	seedItem(t, db, "ITEM-003", "LIST-001", "ITEM-001", "tests", "", 1)

	// same key under a different parent is fine
	err := repo.Create(ctx, &secondary.ItemRecord{ID: "ITEM-004", ListID: "LIST-001", ParentID: "ITEM-002", Key: "tests"})
	if err != nil {
		t.Fatalf("Create under other parent failed: %v", err)
	}

	err = repo.Create(ctx, &secondary.ItemRecord{ID: "ITEM-005", ListID: "LIST-001", ParentID: "ITEM-001", Key: "tests"})
	if !tgerrors.Is(err, tgerrors.ErrAlreadyExists) {
		t.Errorf("expected AlreadyExists under same parent, got %v", err)
	}

	// moving ITEM-004 under ITEM-001 collides with ITEM-003
	err = repo.UpdateParent(ctx, "ITEM-004", "ITEM-001", 5)
	if !tgerrors.Is(err, tgerrors.ErrAlreadyExists) {
		t.Errorf("expected AlreadyExists on reparent, got %v", err)
	}
}

func TestItemRepository_ChildrenOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewItemRepository(db)
	ctx := context.Background()
	seedList(t, db, "LIST-001", "work", "")
	seedItem(t, db, "ITEM-001", "LIST-001", "", "root", "", 1)
	seedItem(t, db, "ITEM-002", "LIST-001", "ITEM-001", "b", "", 2)
	seedItem(t, db, "ITEM-003", "LIST-001", "ITEM-001", "c", "", 1)
	seedItem(t, db, "ITEM-004", "LIST-001", "ITEM-001", "a", "", 2)

	children, err := repo.GetChildren(ctx, "ITEM-001")
	if err != nil {
		t.Fatalf("GetChildren failed: %v", err)
	}
	want := []string{"ITEM-003", "ITEM-004", "ITEM-002"}
	if len(children) != len(want) {
		t.Fatalf("expected %d children, got %d", len(want), len(children))
	}
	for i, id := range want {
		if children[i].ID != id {
			t.Errorf("children[%d] = %s, want %s", i, children[i].ID, id)
		}
	}

	pos, err := repo.MaxPosition(ctx, "LIST-001", "ITEM-001")
	if err != nil || pos != 2 {
		t.Errorf("MaxPosition = %d, %v; want 2", pos, err)
	}
	pos, _ = repo.MaxPosition(ctx, "LIST-001", "")
	if pos != 1 {
		t.Errorf("top-level MaxPosition = %d, want 1", pos)
	}
}

func TestItemRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewItemRepository(db)
	ctx := context.Background()
	seedList(t, db, "LIST-001", "a", "")
	seedList(t, db, "LIST-002", "b", "")
	seedItem(t, db, "ITEM-001", "LIST-001", "", "p", "in_progress", 1)
	seedItem(t, db, "ITEM-002", "LIST-001", "ITEM-001", "c", "pending", 1)
	seedItem(t, db, "ITEM-003", "LIST-002", "", "q", "pending", 1)

	tests := []struct {
		name    string
		filters secondary.ItemFilters
		want    int
	}{
		{"all", secondary.ItemFilters{}, 3},
		{"one list", secondary.ItemFilters{ListIDs: []string{"LIST-001"}}, 2},
		{"two lists", secondary.ItemFilters{ListIDs: []string{"LIST-001", "LIST-002"}}, 3},
		{"pending", secondary.ItemFilters{Status: "pending"}, 2},
		{"top level", secondary.ItemFilters{TopLevel: true}, 2},
		{"parents", secondary.ItemFilters{HasChildren: true}, 1},
		{"in progress parents", secondary.ItemFilters{HasChildren: true, Status: "in_progress"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("expected %d items, got %d", tt.want, len(items))
			}
		})
	}
}

func TestItemRepository_UpdateStatusTracksCompletedAt(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewItemRepository(db)
	ctx := context.Background()
	seedList(t, db, "LIST-001", "a", "")
	seedItem(t, db, "ITEM-001", "LIST-001", "", "x", "", 1)

	if err := repo.UpdateStatus(ctx, "ITEM-001", "completed"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	got, _ := repo.GetByID(ctx, "ITEM-001")
	if got.Status != "completed" || got.CompletedAt == "" {
		t.Errorf("expected completed with timestamp, got %s/%q", got.Status, got.CompletedAt)
	}

	if err := repo.UpdateStatus(ctx, "ITEM-001", "in_progress"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	got, _ = repo.GetByID(ctx, "ITEM-001")
	if got.CompletedAt != "" {
		t.Errorf("expected completed_at cleared, got %q", got.CompletedAt)
	}

	if err := repo.UpdateStatus(ctx, "ITEM-404", "completed"); !tgerrors.Is(err, tgerrors.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestItemRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewItemRepository(db)
	ctx := context.Background()
	seedList(t, db, "LIST-001", "a", "")
	seedItem(t, db, "ITEM-001", "LIST-001", "", "x", "", 1)

	if err := repo.Delete(ctx, "ITEM-001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, "ITEM-001"); !tgerrors.Is(err, tgerrors.ErrNotFound) {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "ITEM-001"); !tgerrors.Is(err, tgerrors.ErrNotFound) {
		t.Errorf("expected NotFound deleting twice, got %v", err)
	}
}

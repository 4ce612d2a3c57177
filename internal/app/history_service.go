package app

import (
	"context"

	"github.com/example/taskgraph/internal/ports/primary"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// HistoryServiceImpl implements the HistoryService interface.
type HistoryServiceImpl struct {
	runner
}

// NewHistoryService creates a new HistoryService backed by store.
func NewHistoryService(store secondary.Store, opts Options) *HistoryServiceImpl {
	return &HistoryServiceImpl{runner: newRunner(store, opts)}
}

// GetHistory retrieves history for an item, newest first. History outlives
// the item, so a deleted item still has entries.
func (s *HistoryServiceImpl) GetHistory(ctx context.Context, itemID string, limit int) ([]*primary.HistoryEntry, error) {
	var entries []*primary.HistoryEntry
	err := s.read(ctx, "get_history", func(ctx context.Context, repos secondary.Repositories) error {
		records, err := repos.History().ListByItem(ctx, itemID, limit)
		if err != nil {
			return err
		}
		entries = toHistoryEntries(records)
		return nil
	})
	return entries, err
}

// GetOperation retrieves every entry written by one operation, in write order.
func (s *HistoryServiceImpl) GetOperation(ctx context.Context, operationID string) ([]*primary.HistoryEntry, error) {
	var entries []*primary.HistoryEntry
	err := s.read(ctx, "get_operation", func(ctx context.Context, repos secondary.Repositories) error {
		records, err := repos.History().ListByOperation(ctx, operationID)
		if err != nil {
			return err
		}
		entries = toHistoryEntries(records)
		return nil
	})
	return entries, err
}

func toHistoryEntries(records []*secondary.HistoryRecord) []*primary.HistoryEntry {
	entries := make([]*primary.HistoryEntry, len(records))
	for i, r := range records {
		entries[i] = recordToHistory(r)
	}
	return entries
}

// Ensure HistoryServiceImpl implements the interface
var _ primary.HistoryService = (*HistoryServiceImpl)(nil)

package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/taskgraph/internal/ctxutil"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.HistoryWriter over a HistoryRepository.
// Actor and operation ID come from the context; an operation without an ID
// gets a fresh one per entry.
type LogWriterAdapter struct {
	historyRepo secondary.HistoryRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(historyRepo secondary.HistoryRepository) *LogWriterAdapter {
	return &LogWriterAdapter{historyRepo: historyRepo}
}

// LogCreate logs the creation of an item.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, itemID string) error {
	return w.writeLog(ctx, itemID, "create", "", "", "")
}

// LogUpdate logs a field change on an item.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, itemID, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, itemID, "update", fieldName, oldValue, newValue)
}

// LogDelete logs the deletion of an item.
func (w *LogWriterAdapter) LogDelete(ctx context.Context, itemID string) error {
	return w.writeLog(ctx, itemID, "delete", "", "", "")
}

func (w *LogWriterAdapter) writeLog(ctx context.Context, itemID, action, fieldName, oldValue, newValue string) error {
	opID := ctxutil.OperationFromContext(ctx)
	if opID == "" {
		opID = uuid.NewString()
	}

	return w.historyRepo.Create(ctx, &secondary.HistoryRecord{
		ID:          uuid.NewString(),
		OperationID: opID,
		ItemID:      itemID,
		Action:      action,
		FieldName:   fieldName,
		OldValue:    oldValue,
		NewValue:    newValue,
		ActorID:     ctxutil.ActorFromContext(ctx),
	})
}

var _ secondary.HistoryWriter = (*LogWriterAdapter)(nil)

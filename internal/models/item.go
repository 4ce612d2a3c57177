// Package models contains the status and dependency-type constants shared by
// taskgraph layers.
// SQL persistence lives in internal/adapters/sqlite.
package models

// Item status constants
const (
	ItemStatusPending    = "pending"
	ItemStatusInProgress = "in_progress"
	ItemStatusCompleted  = "completed"
	ItemStatusFailed     = "failed"
)

// ItemStatuses lists every valid item status in display order.
var ItemStatuses = []string{
	ItemStatusPending,
	ItemStatusInProgress,
	ItemStatusCompleted,
	ItemStatusFailed,
}

// IsValidItemStatus reports whether status is a known item status.
func IsValidItemStatus(status string) bool {
	for _, s := range ItemStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Package progress computes derived completion statistics.
package progress

import "github.com/example/taskgraph/internal/models"

// ItemState is the per-item input to a tally.
type ItemState struct {
	Status  string
	Blocked bool
}

// Tally holds counts for a set of items.
type Tally struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
	Failed     int
	// Blocked counts items of any status that have a non-completed blocker.
	Blocked int
	// Available counts pending items that are not blocked.
	Available int
}

// Count builds a tally from item states.
func Count(items []ItemState) Tally {
	var t Tally
	for _, it := range items {
		t.Add(it)
	}
	return t
}

// Add counts one item.
func (t *Tally) Add(it ItemState) {
	t.Total++
	switch it.Status {
	case models.ItemStatusPending:
		t.Pending++
		if !it.Blocked {
			t.Available++
		}
	case models.ItemStatusInProgress:
		t.InProgress++
	case models.ItemStatusCompleted:
		t.Completed++
	case models.ItemStatusFailed:
		t.Failed++
	}
	if it.Blocked {
		t.Blocked++
	}
}

// Merge returns the sum of two tallies.
func (t Tally) Merge(o Tally) Tally {
	return Tally{
		Total:      t.Total + o.Total,
		Pending:    t.Pending + o.Pending,
		InProgress: t.InProgress + o.InProgress,
		Completed:  t.Completed + o.Completed,
		Failed:     t.Failed + o.Failed,
		Blocked:    t.Blocked + o.Blocked,
		Available:  t.Available + o.Available,
	}
}

// Percentage returns completed/total*100, or 0 for an empty tally.
func (t Tally) Percentage() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Completed) / float64(t.Total) * 100
}

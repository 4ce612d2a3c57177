package dependency

import (
	"slices"

	"github.com/example/taskgraph/internal/models"
)

// Edge is one outgoing dependency with the current status of its required item.
type Edge struct {
	RequiredID     string
	Type           string
	RequiredStatus string
}

// Blockers returns the required IDs that still block progress, ordered by ID.
// Related edges and completed prerequisites never block.
func Blockers(edges []Edge) []string {
	var out []string
	for _, e := range edges {
		if !models.IsOrderingDependency(e.Type) {
			continue
		}
		if e.RequiredStatus == models.ItemStatusCompleted {
			continue
		}
		out = append(out, e.RequiredID)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

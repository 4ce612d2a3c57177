package dependency

import (
	"slices"

	tgerrors "github.com/example/taskgraph/internal/errors"
)

// NextFunc returns the required IDs reachable from id over ordering edges.
type NextFunc func(id string) ([]string, error)

// CheckCycle reports whether adding dependentID -> requiredID would close a
// cycle. It walks breadth-first from requiredID along outgoing ordering edges,
// visiting each node once, and gives up after maxDepth levels.
//
// When dependentID is reached the returned error is a CircularDependency
// carrying the full path dependentID -> requiredID -> ... -> dependentID.
func CheckCycle(dependentID, requiredID string, next NextFunc, maxDepth int) error {
	if dependentID == requiredID {
		return tgerrors.CircularDependency([]string{dependentID, requiredID})
	}

	parent := map[string]string{requiredID: ""}
	frontier := []string{requiredID}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var nextFrontier []string
		for _, id := range frontier {
			targets, err := next(id)
			if err != nil {
				return err
			}
			for _, t := range targets {
				if t == dependentID {
					return tgerrors.CircularDependency(cyclePath(parent, id, dependentID))
				}
				if _, seen := parent[t]; seen {
					continue
				}
				parent[t] = id
				nextFrontier = append(nextFrontier, t)
			}
		}
		frontier = nextFrontier
	}

	return nil
}

// cyclePath rebuilds dependent -> required -> ... -> last -> dependent.
func cyclePath(parent map[string]string, last, dependentID string) []string {
	var back []string
	for cur := last; cur != ""; cur = parent[cur] {
		back = append(back, cur)
	}
	slices.Reverse(back)

	path := make([]string, 0, len(back)+2)
	path = append(path, dependentID)
	path = append(path, back...)
	return append(path, dependentID)
}

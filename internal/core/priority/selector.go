// Package priority picks the single next item to work on.
package priority

import (
	"cmp"
	"slices"
)

// Phase names the rule that produced a selection.
type Phase string

const (
	// PhaseResume selects a pending child of an in-progress parent.
	PhaseResume Phase = "resume"
	// PhaseTopLevel selects a pending top-level item.
	PhaseTopLevel Phase = "top_level"
	// PhaseNone means nothing is available.
	PhaseNone Phase = "none"
)

// Candidate is a pending item eligible for selection.
type Candidate struct {
	ID       string
	Key      string
	Position int
	Blocked  bool
}

// Selection is the selector's answer. ItemID is empty for PhaseNone.
type Selection struct {
	ItemID string
	Phase  Phase
}

// Found reports whether an item was selected.
func (s Selection) Found() bool { return s.ItemID != "" }

// Compare orders candidates by (position, key, id).
func Compare(a, b Candidate) int {
	return cmp.Or(
		cmp.Compare(a.Position, b.Position),
		cmp.Compare(a.Key, b.Key),
		cmp.Compare(a.ID, b.ID),
	)
}

// Select applies the phases in order; the first phase with an unblocked
// candidate wins.
//   - resume: pending children of in-progress parents
//   - topLevel: pending items without a parent
func Select(resume, topLevel []Candidate) Selection {
	if id, ok := first(resume); ok {
		return Selection{ItemID: id, Phase: PhaseResume}
	}
	if id, ok := first(topLevel); ok {
		return Selection{ItemID: id, Phase: PhaseTopLevel}
	}
	return Selection{Phase: PhaseNone}
}

func first(cands []Candidate) (string, bool) {
	open := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if !c.Blocked {
			open = append(open, c)
		}
	}
	if len(open) == 0 {
		return "", false
	}
	return slices.MinFunc(open, Compare).ID, true
}

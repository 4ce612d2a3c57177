package progress

import "testing"

func TestCount(t *testing.T) {
	got := Count([]ItemState{
		{Status: "pending"},
		{Status: "pending", Blocked: true},
		{Status: "in_progress", Blocked: true},
		{Status: "completed"},
		{Status: "failed"},
	})

	want := Tally{
		Total:      5,
		Pending:    2,
		InProgress: 1,
		Completed:  1,
		Failed:     1,
		Blocked:    2,
		Available:  1,
	}
	if got != want {
		t.Errorf("Count() = %+v, want %+v", got, want)
	}
	if got.Percentage() != 20 {
		t.Errorf("Percentage() = %v, want 20", got.Percentage())
	}
}

func TestPercentage_Empty(t *testing.T) {
	if p := (Tally{}).Percentage(); p != 0 {
		t.Errorf("Percentage() = %v, want 0", p)
	}
}

func TestMerge(t *testing.T) {
	a := Count([]ItemState{{Status: "completed"}, {Status: "pending"}})
	b := Count([]ItemState{{Status: "completed"}, {Status: "completed"}})

	m := a.Merge(b)
	if m.Total != 4 || m.Completed != 3 || m.Available != 1 {
		t.Errorf("Merge() = %+v", m)
	}
	if m.Percentage() != 75 {
		t.Errorf("Percentage() = %v, want 75", m.Percentage())
	}
}

package errors

import (
	"fmt"
	"testing"
)

func TestError_Is(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		want bool
	}{
		{"not found matches", NotFound("item", "ITEM-001"), ErrNotFound, true},
		{"not found does not match hierarchy", NotFound("item", "ITEM-001"), ErrInvalidHierarchy, false},
		{"wrapped with fmt", fmt.Errorf("context: %w", CircularDependency([]string{"A", "B", "A"})), ErrCircularDependency, true},
		{"with op keeps kind", DuplicateDependency("edge exists").WithOp("add_dependency"), ErrDuplicateDependency, true},
		{"plain error", New("boom"), ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.kind); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	err := CircularDependency([]string{"ITEM-002", "ITEM-001", "ITEM-002"}).WithOp("add_dependency")
	want := "add_dependency: circular dependency: ITEM-002 -> ITEM-001 -> ITEM-002"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	cause := New("disk full")
	wrapped := &Error{Kind: ErrConsistencyViolation, Msg: "cascade aborted", Err: cause}
	if !Is(wrapped, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
	if wrapped.Error() != "consistency violation: cascade aborted: disk full" {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
}

func TestWithOp_KeepsExistingOp(t *testing.T) {
	err := NotFound("list", "LIST-009").WithOp("create_item").WithOp("outer")
	if err.Op != "create_item" {
		t.Errorf("Op = %q, want %q", err.Op, "create_item")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"status", InvalidStatusTransition("bad"), ErrInvalidStatusTransition},
		{"exists", AlreadyExists("item key", "a"), ErrAlreadyExists},
		{"validation", Validation("empty key"), ErrValidation},
		{"unclassified", New("x"), nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	if !IsUserFacing(NotFound("item", "x")) {
		t.Error("NotFound should be user facing")
	}
	if IsUserFacing(ConsistencyViolation("parent loop")) {
		t.Error("ConsistencyViolation should not be user facing")
	}
	if !IsConsistencyViolation(fmt.Errorf("tx: %w", ConsistencyViolation("parent loop"))) {
		t.Error("expected wrapped consistency violation to be detected")
	}
	if IsUserFacing(New("driver failure")) {
		t.Error("unclassified errors should not be user facing")
	}
}

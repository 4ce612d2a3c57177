package cli

import (
	"strings"
	"testing"
)

func TestValidateEntityID(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		entityType string
		wantErr    string
	}{
		{"valid item", "ITEM-001", "item", ""},
		{"valid list", "LIST-002", "list", ""},
		{"empty", "", "item", ""},
		{"unknown type", "X-1", "widget", ""},
		{"short id", "12", "item", "Use full ID format: ITEM-12"},
		{"wrong case", "item-001", "item", "use: ITEM-001"},
		{"wrong prefix", "LIST-001", "item", "Expected format: ITEM-xxx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEntityID(tt.id, tt.entityType)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateItemIDs(t *testing.T) {
	if err := validateItemIDs("ITEM-001", "ITEM-002"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validateItemIDs("ITEM-001", "7"); err == nil {
		t.Error("expected error for short second ID")
	}
}

func TestParseStateValue(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"", nil},
		{"true", true},
		{"false", false},
		{"TRUE", "TRUE"},
		{"reviewed by sam", "reviewed by sam"},
	}

	for _, tt := range tests {
		if got := parseStateValue(tt.raw); got != tt.want {
			t.Errorf("parseStateValue(%q) = %#v, want %#v", tt.raw, got, tt.want)
		}
	}
}

func TestRootCmdStructure(t *testing.T) {
	root := RootCmd()

	want := []string{"list", "item", "subtask", "reparent", "tree", "dep", "graph", "next", "progress", "history", "dev"}
	registered := make(map[string]bool)
	for _, sub := range root.Commands() {
		registered[sub.Name()] = true
		if sub.Short == "" {
			t.Errorf("command %q should have a Short description", sub.Name())
		}
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}

	for _, flag := range []string{"config", "actor"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestDetectAndStoreActor_Override(t *testing.T) {
	t.Cleanup(func() { globalActorID = "" })

	DetectAndStoreActor("reviewer")
	if got := GetActorID(); got != "reviewer" {
		t.Errorf("GetActorID() = %q, want reviewer", got)
	}

	t.Setenv("TASKGRAPH_ACTOR", "from-env")
	DetectAndStoreActor("")
	if got := GetActorID(); got != "from-env" {
		t.Errorf("GetActorID() = %q, want from-env", got)
	}
}

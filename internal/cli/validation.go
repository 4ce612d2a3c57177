package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/example/taskgraph/internal/wire"
)

// entityPrefixes maps entity types to their expected ID prefixes
var entityPrefixes = map[string]string{
	"item": "ITEM",
	"list": "LIST",
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// validateEntityID checks if an ID has the correct prefix format.
// Returns an error with helpful message if the ID appears to be a short ID.
func validateEntityID(id, entityType string) error {
	if id == "" {
		return nil // Empty is OK, let other validation handle required fields
	}

	prefix, ok := entityPrefixes[entityType]
	if !ok {
		return nil
	}

	expectedPattern := prefix + "-"
	if strings.HasPrefix(id, expectedPattern) {
		return nil
	}

	if digitsOnly.MatchString(id) {
		return fmt.Errorf("invalid %s ID '%s'. Use full ID format: %s-%s", entityType, id, prefix, id)
	}

	if strings.HasPrefix(strings.ToUpper(id), expectedPattern) {
		return fmt.Errorf("invalid %s ID '%s'. IDs are case-sensitive, use: %s", entityType, id, strings.ToUpper(id))
	}

	return fmt.Errorf("invalid %s ID '%s'. Expected format: %s-xxx", entityType, id, prefix)
}

// validateItemIDs checks every argument as an item ID.
func validateItemIDs(ids ...string) error {
	for _, id := range ids {
		if err := validateEntityID(id, "item"); err != nil {
			return err
		}
	}
	return nil
}

// parseStateValue turns a command-line completion state into its stored
// form: "true"/"false" become booleans, an empty value clears the state.
func parseStateValue(raw string) any {
	switch raw {
	case "":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}

// listScope returns the lists named by flags, falling back to the
// configured default list. Empty means every active list.
func listScope(lists []string) ([]string, error) {
	if len(lists) > 0 {
		return lists, nil
	}
	cfg, err := wire.Config()
	if err != nil {
		return nil, err
	}
	if cfg.DefaultList != "" {
		return []string{cfg.DefaultList}, nil
	}
	return nil, nil
}

// requireList resolves a single list argument, falling back to the
// configured default list.
func requireList(list string) (string, error) {
	scope, err := listScope(nonEmpty(list))
	if err != nil {
		return "", err
	}
	if len(scope) == 0 {
		return "", fmt.Errorf("no list given: pass --list or set default_list in the config")
	}
	return scope[0], nil
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

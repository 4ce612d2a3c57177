package config

import (
	"fmt"
	"strings"
)

// ValidationError describes one invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors aggregates every invalid setting found.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(c.DB.Path) == "" {
		errs = append(errs, ValidationError{Field: "db.path", Value: c.DB.Path, Message: "must not be empty"})
	}

	level := strings.ToLower(c.Log.Level)
	found := false
	for _, l := range validLevels {
		if l == level {
			found = true
			break
		}
	}
	if !found {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Value:   c.Log.Level,
			Message: "must be one of " + strings.Join(validLevels, ", "),
		})
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, ValidationError{Field: "log.format", Value: c.Log.Format, Message: "must be json or text"})
	}

	if c.Limits.MaxDependencyDepth <= 0 {
		errs = append(errs, ValidationError{
			Field: "limits.max_dependency_depth", Value: c.Limits.MaxDependencyDepth, Message: "must be positive",
		})
	}
	if c.Limits.MaxHierarchyDepth <= 0 {
		errs = append(errs, ValidationError{
			Field: "limits.max_hierarchy_depth", Value: c.Limits.MaxHierarchyDepth, Message: "must be positive",
		})
	}

	return errs
}

package primary

import "context"

// ProgressService defines the primary port for progress analytics.
type ProgressService interface {
	// GetProgress aggregates progress over the lists in scope.
	GetProgress(ctx context.Context, scope Scope) (*Progress, error)

	// GetProjectProgress aggregates progress over every list in a project.
	GetProjectProgress(ctx context.Context, project string) (*Progress, error)
}

// ProgressStats holds counts for a set of items.
type ProgressStats struct {
	Total                int     `json:"total" yaml:"total"`
	Pending              int     `json:"pending" yaml:"pending"`
	InProgress           int     `json:"in_progress" yaml:"in_progress"`
	Completed            int     `json:"completed" yaml:"completed"`
	Failed               int     `json:"failed" yaml:"failed"`
	Blocked              int     `json:"blocked" yaml:"blocked"`
	Available            int     `json:"available" yaml:"available"`
	CompletionPercentage float64 `json:"completion_percentage" yaml:"completion_percentage"`
}

// ListProgress is the per-list breakdown.
type ListProgress struct {
	ListID  string        `json:"list_id" yaml:"list_id"`
	ListKey string        `json:"list_key" yaml:"list_key"`
	Stats   ProgressStats `json:"stats" yaml:"stats"`
}

// Progress is the aggregate over a scope.
type Progress struct {
	Stats ProgressStats   `json:"stats" yaml:"stats"`
	Lists []*ListProgress `json:"lists" yaml:"lists"`
}

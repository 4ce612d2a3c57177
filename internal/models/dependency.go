package models

// Dependency type constants
const (
	DependencyTypeBlocks   = "blocks"
	DependencyTypeRequires = "requires"
	DependencyTypeRelated  = "related"
)

// IsValidDependencyType reports whether t is a known dependency type.
func IsValidDependencyType(t string) bool {
	switch t {
	case DependencyTypeBlocks, DependencyTypeRequires, DependencyTypeRelated:
		return true
	}
	return false
}

// IsOrderingDependency reports whether edges of type t carry ordering semantics.
// Related edges are informational only.
func IsOrderingDependency(t string) bool {
	return t == DependencyTypeBlocks || t == DependencyTypeRequires
}

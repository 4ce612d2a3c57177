package models

// List status constants
const (
	ListStatusActive   = "active"
	ListStatusArchived = "archived"
)

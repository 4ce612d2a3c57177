package cli

import (
	"github.com/fatih/color"

	"github.com/example/taskgraph/internal/models"
)

// statusLabel renders an item status in its display color.
func statusLabel(status string) string {
	switch status {
	case models.ItemStatusCompleted:
		return color.New(color.FgGreen).Sprint(status)
	case models.ItemStatusInProgress:
		return color.New(color.FgYellow).Sprint(status)
	case models.ItemStatusFailed:
		return color.New(color.FgRed).Sprint(status)
	}
	return status
}

func checkMark() string {
	return color.New(color.FgGreen).Sprint("✓")
}

func blockedMark() string {
	return color.New(color.FgRed).Sprint("⛔")
}

func dim(s string) string {
	return color.New(color.Faint).Sprint(s)
}

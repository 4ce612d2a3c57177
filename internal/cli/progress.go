package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/taskgraph/internal/wire"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next item to work on",
	Long: `Pick the next pending, unblocked item. Subtasks of in-progress parents
come first, then top-level items, each ordered by position, key, and ID.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lists, _ := cmd.Flags().GetStringSlice("list")

		scope, err := listScope(lists)
		if err != nil {
			return err
		}
		return wire.ProgressAdapter().Next(NewContext(), scope)
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show completion statistics",
	Long: `Show per-status counts, blocked and available items, and completion
percentage for lists (default: every active list) or a whole project.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lists, _ := cmd.Flags().GetStringSlice("list")
		project, _ := cmd.Flags().GetString("project")

		if project != "" && len(lists) > 0 {
			return fmt.Errorf("--project cannot be combined with --list")
		}
		if project == "" {
			scope, err := listScope(lists)
			if err != nil {
				return err
			}
			lists = scope
		}
		return wire.ProgressAdapter().Progress(NewContext(), lists, project)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [item-id]",
	Short: "Show the change history of an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateItemIDs(args[0]); err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		return wire.ProgressAdapter().History(NewContext(), args[0], limit)
	},
}

func init() {
	nextCmd.Flags().StringSliceP("list", "l", nil, "List IDs or keys (repeatable)")

	progressCmd.Flags().StringSliceP("list", "l", nil, "List IDs or keys (repeatable)")
	progressCmd.Flags().StringP("project", "p", "", "Aggregate every active list of a project")

	historyCmd.Flags().IntP("limit", "n", 50, "Maximum entries to show")
}

// NextCmd returns the next command
func NextCmd() *cobra.Command {
	return nextCmd
}

// ProgressCmd returns the progress command
func ProgressCmd() *cobra.Command {
	return progressCmd
}

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	return historyCmd
}

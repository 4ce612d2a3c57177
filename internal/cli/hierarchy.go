package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/taskgraph/internal/wire"
)

var subtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "Manage subtasks",
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add [parent-id] [key]",
	Short: "Add a subtask under an item",
	Long: `Add a subtask under an item. The subtask joins the parent's list.
Adding an open subtask to a completed parent reopens the parent.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateItemIDs(args[0]); err != nil {
			return err
		}
		content, _ := cmd.Flags().GetString("content")
		position, _ := cmd.Flags().GetInt("position")

		if err := wire.ItemAdapter().AddSubtask(NewContext(), args[0], args[1], content, position); err != nil {
			return fmt.Errorf("failed to add subtask: %w", err)
		}
		return nil
	},
}

var reparentCmd = &cobra.Command{
	Use:   "reparent [item-id] [new-parent-id]",
	Short: "Move an item under another parent, or to top level",
	Long: `Move an item, with its subtree, under a new parent in the same list.
Omit the new parent (or pass --top) to move the item to top level.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetBool("top")
		var newParent string
		if len(args) == 2 {
			newParent = args[1]
		}
		if top && newParent != "" {
			return fmt.Errorf("--top cannot be combined with a new parent")
		}
		if err := validateItemIDs(args...); err != nil {
			return err
		}

		if err := wire.ItemAdapter().Reparent(NewContext(), args[0], newParent); err != nil {
			return fmt.Errorf("failed to reparent item: %w", err)
		}
		return nil
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree [item-id]",
	Short: "Show an item's subtree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateItemIDs(args[0]); err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return wire.ItemAdapter().Tree(NewContext(), args[0], format)
	},
}

func init() {
	subtaskAddCmd.Flags().StringP("content", "c", "", "Subtask description")
	subtaskAddCmd.Flags().Int("position", 0, "Position among siblings (default: last)")
	subtaskCmd.AddCommand(subtaskAddCmd)

	reparentCmd.Flags().Bool("top", false, "Move the item to top level")

	treeCmd.Flags().StringP("format", "f", "", "Export format (json, yaml, dot)")
}

// SubtaskCmd returns the subtask command
func SubtaskCmd() *cobra.Command {
	return subtaskCmd
}

// ReparentCmd returns the reparent command
func ReparentCmd() *cobra.Command {
	return reparentCmd
}

// TreeCmd returns the tree command
func TreeCmd() *cobra.Command {
	return treeCmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/taskgraph/internal/wire"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage items",
	Long:  "Add, inspect, update, and remove items within task lists",
}

var itemAddCmd = &cobra.Command{
	Use:   "add [key]",
	Short: "Add a top-level item to a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, _ := cmd.Flags().GetString("list")
		content, _ := cmd.Flags().GetString("content")
		position, _ := cmd.Flags().GetInt("position")

		listID, err := requireList(list)
		if err != nil {
			return err
		}
		if err := wire.ItemAdapter().Add(NewContext(), listID, args[0], content, position); err != nil {
			return fmt.Errorf("failed to add item: %w", err)
		}
		return nil
	},
}

var itemShowCmd = &cobra.Command{
	Use:   "show [item-id]",
	Short: "Show item details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateItemIDs(args[0]); err != nil {
			return err
		}
		return wire.ItemAdapter().Show(NewContext(), args[0])
	},
}

var itemLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List items",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, _ := cmd.Flags().GetString("list")
		status, _ := cmd.Flags().GetString("status")
		topLevel, _ := cmd.Flags().GetBool("top-level")

		if err := wire.ItemAdapter().List(NewContext(), list, status, topLevel); err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}
		return nil
	},
}

var itemStatusCmd = &cobra.Command{
	Use:   "status [item-id] [status]",
	Short: "Set an item's status (pending, in_progress, completed, failed)",
	Long: `Set an item's status.

Completing the last open child of a parent completes the parent, and the
cascade continues upward. A parent with open children cannot be completed
directly.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateItemIDs(args[0]); err != nil {
			return err
		}
		return wire.ItemAdapter().SetStatus(NewContext(), args[0], args[1])
	},
}

var itemStateCmd = &cobra.Command{
	Use:   "state [item-id] [name] [value]",
	Short: "Set or clear a completion state flag",
	Long: `Set a named completion state on an item. "true" and "false" are stored
as booleans, anything else as text. Omit the value to clear the state.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateItemIDs(args[0]); err != nil {
			return err
		}
		var raw string
		if len(args) == 3 {
			raw = args[2]
		}
		return wire.ItemAdapter().SetState(NewContext(), args[0], args[1], parseStateValue(raw))
	},
}

var itemRenameCmd = &cobra.Command{
	Use:   "rename [item-id] [new-key]",
	Short: "Change an item's key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateItemIDs(args[0]); err != nil {
			return err
		}
		return wire.ItemAdapter().Rename(NewContext(), args[0], args[1])
	},
}

var itemRmCmd = &cobra.Command{
	Use:   "rm [item-id]",
	Short: "Delete an item and its subtree",
	Long: `Delete an item. By default its whole subtree goes with it; with
--reparent-children the direct children move up to the item's parent.
Dependencies touching deleted items are removed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateItemIDs(args[0]); err != nil {
			return err
		}
		reparent, _ := cmd.Flags().GetBool("reparent-children")
		if err := wire.ItemAdapter().Remove(NewContext(), args[0], reparent); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		return nil
	},
}

func init() {
	itemAddCmd.Flags().StringP("list", "l", "", "List ID or key (default: default_list)")
	itemAddCmd.Flags().StringP("content", "c", "", "Item description")
	itemAddCmd.Flags().Int("position", 0, "Position among siblings (default: last)")

	itemLsCmd.Flags().StringP("list", "l", "", "Filter by list ID or key")
	itemLsCmd.Flags().StringP("status", "s", "", "Filter by status")
	itemLsCmd.Flags().Bool("top-level", false, "Only items without a parent")

	itemRmCmd.Flags().Bool("reparent-children", false, "Move children up instead of deleting them")

	itemCmd.AddCommand(itemAddCmd)
	itemCmd.AddCommand(itemShowCmd)
	itemCmd.AddCommand(itemLsCmd)
	itemCmd.AddCommand(itemStatusCmd)
	itemCmd.AddCommand(itemStateCmd)
	itemCmd.AddCommand(itemRenameCmd)
	itemCmd.AddCommand(itemRmCmd)
}

// ItemCmd returns the item command
func ItemCmd() *cobra.Command {
	return itemCmd
}

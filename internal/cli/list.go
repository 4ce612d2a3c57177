package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/taskgraph/internal/wire"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Manage task lists",
	Long:  "Create, list, and archive the named lists that group items",
}

var listCreateCmd = &cobra.Command{
	Use:   "create [key]",
	Short: "Create a new list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		project, _ := cmd.Flags().GetString("project")

		if err := wire.ListAdapter().Create(NewContext(), args[0], title, project); err != nil {
			return fmt.Errorf("failed to create list: %w", err)
		}
		return nil
	},
}

var listLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List task lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		project, _ := cmd.Flags().GetString("project")

		if err := wire.ListAdapter().List(NewContext(), status, project); err != nil {
			return fmt.Errorf("failed to list lists: %w", err)
		}
		return nil
	},
}

var listArchiveCmd = &cobra.Command{
	Use:   "archive [list]",
	Short: "Archive a list (its items stay readable but leave the default scope)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.ListAdapter().Archive(NewContext(), args[0]); err != nil {
			return fmt.Errorf("failed to archive list: %w", err)
		}
		return nil
	},
}

func init() {
	listCreateCmd.Flags().StringP("title", "t", "", "List title")
	listCreateCmd.Flags().StringP("project", "p", "", "Project the list belongs to")

	listLsCmd.Flags().StringP("status", "s", "", "Filter by status (active, archived)")
	listLsCmd.Flags().StringP("project", "p", "", "Filter by project")

	listCmd.AddCommand(listCreateCmd)
	listCmd.AddCommand(listLsCmd)
	listCmd.AddCommand(listArchiveCmd)
}

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	return listCmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/taskgraph/internal/models"
	"github.com/example/taskgraph/internal/wire"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage dependencies between items",
	Long: `Manage dependency edges. A "blocks" or "requires" edge keeps the dependent
item out of the next-item pick until the required item completes; such edges
may not form cycles. "related" edges are informational only.`,
}

var depAddCmd = &cobra.Command{
	Use:   "add [dependent-id] [required-id]",
	Short: "Make one item depend on another",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateItemIDs(args...); err != nil {
			return err
		}
		depType, _ := cmd.Flags().GetString("type")

		if err := wire.DependencyAdapter().Add(NewContext(), args[0], args[1], depType); err != nil {
			return fmt.Errorf("failed to add dependency: %w", err)
		}
		return nil
	},
}

var depRmCmd = &cobra.Command{
	Use:   "rm [dependent-id] [required-id]",
	Short: "Remove a dependency",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateItemIDs(args...); err != nil {
			return err
		}
		if err := wire.DependencyAdapter().Remove(NewContext(), args[0], args[1]); err != nil {
			return fmt.Errorf("failed to remove dependency: %w", err)
		}
		return nil
	},
}

var depBlockersCmd = &cobra.Command{
	Use:   "blockers [item-id]",
	Short: "Show the open items blocking an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateItemIDs(args[0]); err != nil {
			return err
		}
		return wire.DependencyAdapter().Blockers(NewContext(), args[0])
	},
}

var depDependentsCmd = &cobra.Command{
	Use:   "dependents [item-id]",
	Short: "Show the items that depend on an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateItemIDs(args[0]); err != nil {
			return err
		}
		return wire.DependencyAdapter().Dependents(NewContext(), args[0])
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dependency graph",
	Long: `Export the dependency graph of one or more lists (default: every active
list). Items in other lists that an edge touches are included as nodes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lists, _ := cmd.Flags().GetStringSlice("list")
		format, _ := cmd.Flags().GetString("format")

		scope, err := listScope(lists)
		if err != nil {
			return err
		}
		return wire.DependencyAdapter().Graph(NewContext(), scope, format)
	},
}

func init() {
	depAddCmd.Flags().StringP("type", "t", models.DependencyTypeRequires, "Dependency type (blocks, requires, related)")

	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRmCmd)
	depCmd.AddCommand(depBlockersCmd)
	depCmd.AddCommand(depDependentsCmd)

	graphCmd.Flags().StringSliceP("list", "l", nil, "List IDs or keys (repeatable)")
	graphCmd.Flags().StringP("format", "f", "json", "Output format (json, yaml, dot)")
}

// DepCmd returns the dep command
func DepCmd() *cobra.Command {
	return depCmd
}

// GraphCmd returns the graph command
func GraphCmd() *cobra.Command {
	return graphCmd
}

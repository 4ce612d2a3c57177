package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/taskgraph/internal/db"
	"github.com/example/taskgraph/internal/wire"
)

// DevCmd returns the dev command group for development utilities.
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "dev",
		Short:  "Development utilities",
		Hidden: true,
	}

	cmd.AddCommand(devResetCmd())
	return cmd
}

func devResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the database with fresh fixtures",
		Long: `Delete the configured database and recreate it with fixture data:
two lists in one project, a small hierarchy, and cross-list dependencies.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wire.Config()
			if err != nil {
				return err
			}
			dbPath := cfg.DB.Path
			if dbPath == db.MemoryPath {
				return fmt.Errorf("db.path is in-memory; nothing to reset")
			}

			if !force {
				fmt.Printf("This will delete and recreate: %s\n", dbPath)
				fmt.Print("Continue? [y/N] ")
				var response string
				fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			for _, suffix := range []string{"", "-wal", "-shm"} {
				if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to delete database: %w", err)
				}
			}
			fmt.Printf("✓ Deleted %s\n", dbPath)

			database, err := db.Open(dbPath)
			if err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}
			defer database.Close()
			fmt.Println("✓ Created fresh database with schema")

			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}
			fmt.Println("✓ Seeded fixture data")

			fmt.Println("\nSeeded entities:")
			fmt.Println("  - 2 lists (project launch)")
			fmt.Println("  - 7 items, 3 of them subtasks")
			fmt.Println("  - 4 dependencies")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/taskgraph/internal/version"
	"github.com/example/taskgraph/internal/wire"
)

// RootCmd builds the taskgraph command tree.
func RootCmd() *cobra.Command {
	var (
		cfgFile string
		actor   string
	)

	rootCmd := &cobra.Command{
		Use:     "taskgraph",
		Short:   "taskgraph - hierarchical task lists with dependencies",
		Version: version.String(),
		Long: `taskgraph manages task lists whose items nest into subtasks and depend
on each other across lists. It picks the next item to work on and reports
progress per list or project.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			wire.SetConfigFile(cfgFile)
			DetectAndStoreActor(actor)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./.taskgraph/config.yaml or ~/.config/taskgraph/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Actor recorded in item history (default $TASKGRAPH_ACTOR or the OS user)")

	rootCmd.AddCommand(ListCmd())
	rootCmd.AddCommand(ItemCmd())
	rootCmd.AddCommand(SubtaskCmd())
	rootCmd.AddCommand(ReparentCmd())
	rootCmd.AddCommand(TreeCmd())
	rootCmd.AddCommand(DepCmd())
	rootCmd.AddCommand(GraphCmd())
	rootCmd.AddCommand(NextCmd())
	rootCmd.AddCommand(ProgressCmd())
	rootCmd.AddCommand(HistoryCmd())

	// Developer tools
	rootCmd.AddCommand(DevCmd())

	return rootCmd
}

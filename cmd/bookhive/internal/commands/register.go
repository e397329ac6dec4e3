package commands

import "github.com/spf13/cobra"

// Register attaches every subcommand to the root command.
func Register(root *cobra.Command) {
	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newCreateSuperuserCmd(),
		newSeedCmd(),
	)
}

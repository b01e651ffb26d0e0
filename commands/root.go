// Package commands implements the godqn command line
package commands

import "github.com/spf13/cobra"

var (
	seed       uint64
	saveDir    string
	configFile string
)

// GetRootCommand returns the godqn command with all subcommands added
func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "godqn",
		Short:         "Train Deep Q-Network agents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 192382, "Seed for all random number generators")
	rootCommand.PersistentFlags().StringVarP(&saveDir, "save", "s", "results", "Save the results of each run in a sub-directory of the specified folder")
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "", "JSON run configuration, flags override its values")

	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(ConfigCommand())
	return rootCommand
}

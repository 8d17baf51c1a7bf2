package commands

import (
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "ccm",
	Short: "ccm - Cyclomatic complexity measures from bytecode",
	Long: `ccm computes cyclomatic complexity measures from disassembled bytecode
listings, at both the instruction level and the source-line level.

Commands:
  analyze     Compute complexity measures for listings
  graph       Dump a callable's control-flow graph
  paths       Enumerate a callable's basis paths
  tables      List registered instruction sets
  init        Create a configuration file interactively
  doctor      Run health checks on the configuration

Use "ccm [command] --help" for more information about a command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	// Add subcommands
	RootCmd.AddCommand(analyzeCmd)
	RootCmd.AddCommand(graphCmd)
	RootCmd.AddCommand(pathsCmd)
	RootCmd.AddCommand(tablesCmd)
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(doctorCmd)
}

package commands

import (
	"fmt"

	"github.com/l3aro/go-ccm/internal/config"
	"github.com/l3aro/go-ccm/pkg/instr"
	"github.com/spf13/cobra"
)

// tablesCmd represents the tables command
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List registered instruction sets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configured := ""
		if cfg, err := config.Load(); err == nil {
			configured = cfg.InstructionSet
		}

		defaultVersion := instr.Default().Version()
		for _, v := range instr.Versions() {
			marks := ""
			if v == defaultVersion {
				marks += " (default)"
			}
			if v == configured && configured != defaultVersion {
				marks += " (configured)"
			}
			fmt.Printf("%s%s\n", v, marks)
		}
		return nil
	},
}

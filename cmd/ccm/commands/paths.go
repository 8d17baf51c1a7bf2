package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/l3aro/go-ccm/pkg/basispath"
	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths <listing> <callable>",
	Short: "Enumerate a callable's basis paths",
	Long: `Enumerates the acyclic entry-to-exit paths through a callable's
control-flow graph. Paths are produced lazily; use --max to bound the
output for branch-heavy callables.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		max, _ := cmd.Flags().GetInt("max")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		bg, c, err := buildCallableGraph(args[0], args[1])
		if err != nil {
			return err
		}

		var paths []basispath.Path
		truncated := false
		e := basispath.NewEnumerator(bg)
		for {
			p, ok := e.Next()
			if !ok {
				break
			}
			if max > 0 && len(paths) == max {
				truncated = true
				break
			}
			paths = append(paths, p)
		}

		if jsonOutput {
			out := struct {
				Callable  string           `json:"callable"`
				Paths     []basispath.Path `json:"paths"`
				Truncated bool             `json:"truncated,omitempty"`
			}{c.ID(), paths, truncated}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		for i, p := range paths {
			fmt.Printf("%3d: %s\n", i+1, formatPath(p))
		}
		if truncated {
			fmt.Printf("... truncated at %d paths\n", max)
		} else {
			fmt.Printf("%d paths\n", len(paths))
		}
		return nil
	},
}

func init() {
	pathsCmd.Flags().Int("max", 0, "Maximum number of paths to print (0 for all)")
	pathsCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}

func formatPath(p basispath.Path) string {
	parts := make([]string, len(p))
	for i, offset := range p {
		parts[i] = fmt.Sprintf("%d", offset)
	}
	return strings.Join(parts, " -> ")
}

package commands

import (
	"fmt"
	"strings"

	"github.com/l3aro/go-ccm/internal/config"
	"github.com/l3aro/go-ccm/pkg/bytegraph"
	"github.com/l3aro/go-ccm/pkg/dis"
	"github.com/l3aro/go-ccm/pkg/instr"
	"github.com/l3aro/go-ccm/pkg/linegraph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <listing> <callable>",
	Short: "Dump a callable's control-flow graph",
	Long: `Builds the control-flow graph of one callable from a listing and
prints it, either as a readable node dump or as Graphviz DOT. The
bytecode level shows one node per instruction offset; the source level
shows the quotient graph with one node per source line.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dotOutput, _ := cmd.Flags().GetBool("dot")
		level, _ := cmd.Flags().GetString("level")

		bg, c, err := buildCallableGraph(args[0], args[1])
		if err != nil {
			return err
		}

		switch config.GraphLevel(level) {
		case config.GraphBytecode:
			if dotOutput {
				printBytecodeDOT(bg, c.ID())
			} else {
				printBytecodeGraph(bg)
			}
		case config.GraphSource:
			lg := linegraph.FromBytecode(bg)
			if dotOutput {
				printLineDOT(lg, c.ID())
			} else {
				printLineGraph(lg)
			}
		default:
			return fmt.Errorf("invalid level %q (must be 'bytecode' or 'source')", level)
		}

		return nil
	},
}

func init() {
	graphCmd.Flags().String("level", "bytecode", "Graph level: bytecode or source")
	graphCmd.Flags().Bool("dot", false, "Output Graphviz DOT")
}

// buildCallableGraph loads a listing, finds the callable, and builds its
// bytecode graph with the listing's instruction set.
func buildCallableGraph(listingPath, name string) (*bytegraph.Graph, dis.Callable, error) {
	l, err := dis.Load(listingPath)
	if err != nil {
		return nil, dis.Callable{}, err
	}

	c, ok := l.Find(name)
	if !ok {
		return nil, dis.Callable{}, fmt.Errorf("callable %q not found in %s", name, listingPath)
	}

	table := instr.Default()
	if l.InstructionSet != "" {
		table, err = instr.Lookup(l.InstructionSet)
		if err != nil {
			return nil, dis.Callable{}, err
		}
	}

	bg, err := bytegraph.NewBuilder(table).Build(c.Instructions)
	if err != nil {
		return nil, dis.Callable{}, fmt.Errorf("building graph for %s: %w", c.ID(), err)
	}

	return bg, c, nil
}

func printBytecodeGraph(bg *bytegraph.Graph) {
	fmt.Printf("instruction set: %s\n", bg.InstructionSet())
	fmt.Printf("nodes: %d  edges: %d  components: %d\n\n", bg.NodeCount(), bg.EdgeCount(), bg.ComponentCount())

	for _, offset := range bg.Offsets() {
		ins, _ := bg.Instruction(offset)
		marker := " "
		if ins.IsEntryPoint {
			marker = ">"
		} else if ins.IsExitPoint {
			marker = "<"
		}

		succs := bg.Successors(offset)
		arrow := ""
		if len(succs) > 0 {
			arrow = fmt.Sprintf("  -> %s", joinInts(succs))
		}
		fmt.Printf("%s %s%s\n", marker, ins.String(), arrow)
	}
}

func printLineGraph(lg *linegraph.Graph) {
	fmt.Printf("nodes: %d  edges: %d\n\n", lg.NodeCount(), lg.EdgeCount())

	for _, line := range lg.Lines() {
		succs := lg.Successors(line)
		arrow := ""
		if len(succs) > 0 {
			arrow = fmt.Sprintf("  -> %s", joinInts(succs))
		}
		fmt.Printf("line %d (%d instructions)%s\n", line, len(lg.InstructionsForLine(line)), arrow)
	}
}

func printBytecodeDOT(bg *bytegraph.Graph, name string) {
	fmt.Printf("digraph %q {\n", name)
	fmt.Println("  rankdir=TB;")
	for _, offset := range bg.Offsets() {
		ins, _ := bg.Instruction(offset)
		shape := "box"
		if ins.IsExitPoint {
			shape = "doublecircle"
		} else if ins.IsEntryPoint {
			shape = "circle"
		}
		fmt.Printf("  n%d [label=\"%d %s\" shape=%s];\n", offset, offset, ins.OpName, shape)
	}
	bg.Edges(func(u, v int) {
		fmt.Printf("  n%d -> n%d;\n", u, v)
	})
	fmt.Println("}")
}

func printLineDOT(lg *linegraph.Graph, name string) {
	fmt.Printf("digraph %q {\n", name)
	fmt.Println("  rankdir=TB;")
	for _, line := range lg.Lines() {
		fmt.Printf("  l%d [label=\"line %d\" shape=box];\n", line, line)
	}
	lg.Edges(func(u, v int) {
		fmt.Printf("  l%d -> l%d;\n", u, v)
	})
	fmt.Println("}")
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorstack/pkg/adjacency"
	"github.com/matzehuels/floorstack/pkg/pipeline"
)

// graphCommand creates the graph command, which renders the room
// connectivity graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags    resolveFlags
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph [survey]",
		Short: "Render the room connectivity graph",
		Long: `Render which rooms connect to which through doors and openings.

Rooms are grouped by floor. Doors without a known far side connect to a shared
exterior node. The output is Graphviz DOT or an SVG rendered from it; this is
a connectivity diagram, not a floor plan.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSurveyFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), cmd, args[0], &flags, output, format, detailed)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg, dot")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with floor area and edges with door type")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, cmd *cobra.Command, input string, flags *resolveFlags, output, format string, detailed bool) error {
	if format != pipeline.FormatSVG && format != pipeline.FormatDOT {
		return fmt.Errorf("invalid graph format: %q (must be svg or dot)", format)
	}

	opts := c.pipelineOptions()
	flags.apply(cmd, &opts)
	opts.Formats = []string{format}
	opts.Detailed = detailed
	if err := readInput(input, &opts); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering connectivity graph...")
	spinner.Start()
	defer spinner.Stop()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}

	path := output
	if path == "" {
		path = artifactPath(outputBase(input, ""), format)
	}
	if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	g := result.Graph
	spinner.StopWithSuccess("Rendered connectivity graph")
	printFile(path)
	printDetail("%d nodes · %d connections", len(g.Nodes), len(g.Edges))
	if isolated := g.Isolated(); len(isolated) > 0 {
		printWarning("Unreachable rooms: %s", isolatedNames(isolated))
	}
	return nil
}

func isolatedNames(nodes []adjacency.Node) string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Floor + "/" + n.Name
	}
	return strings.Join(names, ", ")
}

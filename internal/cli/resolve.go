package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorstack/pkg/pipeline"
	"github.com/matzehuels/floorstack/pkg/resolve"
)

// maxListedDiagnostics bounds how many diagnostics are printed after a run.
const maxListedDiagnostics = 10

// resolveFlags are the resolver flags shared by every command that resolves
// a survey. Zero values fall back to the config file.
type resolveFlags struct {
	strict          bool
	unknownFixtures string
	concurrency     int
	noCache         bool
	refresh         bool
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on the first diagnostic")
	cmd.Flags().StringVar(&f.unknownFixtures, "unknown-fixtures", "", "unrecognised fixture types: ignore (default), gap")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "floors resolved in parallel (0 or 1: sequential)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass cached results")
}

// apply overlays explicitly set flags on opts.
func (f *resolveFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if cmd.Flags().Changed("strict") {
		opts.Strict = f.strict
	}
	if f.unknownFixtures != "" {
		opts.UnknownFixtures = f.unknownFixtures
	}
	if cmd.Flags().Changed("concurrency") {
		opts.Concurrency = f.concurrency
	}
	opts.Refresh = f.refresh
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		flags      resolveFlags
		output     string
		formatsStr string
		detailed   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [survey]",
		Short: "Resolve a survey into a building model",
		Long: `Resolve a RoomScan export (or survey JSON from 'parse') into a building
model: rooms with world-space walls, the doors, windows and openings mounted
on them, and floors stacked at their elevations.

Records that cannot be resolved are skipped and reported as diagnostics; use
--strict to fail instead.

Output formats:
  json   resolved building (<input>.resolved.json)
  dot    room connectivity graph in Graphviz DOT (<input>.dot)
  svg    room connectivity graph rendered to SVG (<input>.svg)

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSurveyFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(cmd, &opts)
			opts.Formats = parseFormats(formatsStr)
			opts.Detailed = detailed
			return c.runResolve(cmd.Context(), args[0], output, opts, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: next to the input)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output formats: json (default), dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label graph nodes with floor area and edges with door type")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	if err := readInput(input, &opts); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Resolving survey...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Resolve failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Resolved %d rooms on %d floors", result.Stats.Rooms, result.Stats.Floors))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := outputBase(input, output)
	paths := make([]string, 0, len(opts.Formats))
	for _, format := range opts.Formats {
		path := artifactPath(base, format)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Resolved %s", result.Building.Name)
	for _, p := range paths {
		printFile(p)
	}
	printStats(statsFromResult(result))
	printDiagnostics(result.Building.Diagnostics)
	printNewline()
	printNextStep("Summarize", "floorstack summary "+input)

	return nil
}

// artifactPath names an artifact file beside base.
func artifactPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + ".resolved.json"
	}
	return base + "." + format
}

// resolveInput runs the pipeline on a survey file for the read-only commands.
func (c *CLI) resolveInput(ctx context.Context, cmd *cobra.Command, input string, flags *resolveFlags) (*pipeline.Result, error) {
	opts := c.pipelineOptions()
	flags.apply(cmd, &opts)
	if err := readInput(input, &opts); err != nil {
		return nil, err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	return runner.Execute(ctx, opts)
}

// statsFromResult condenses a run for printStats.
func statsFromResult(r *pipeline.Result) statsLine {
	return statsLine{
		floors:      r.Stats.Floors,
		rooms:       r.Stats.Rooms,
		doors:       r.Stats.Doors,
		windows:     r.Stats.Windows,
		diagnostics: r.Stats.Diagnostics,
		cached:      r.CacheInfo.ResolveHit,
	}
}

// printDiagnostics lists the first few diagnostics as warnings.
func printDiagnostics(diags []resolve.Diagnostic) {
	for i, d := range diags {
		if i == maxListedDiagnostics {
			printDetail("... and %d more", len(diags)-maxListedDiagnostics)
			break
		}
		printWarning("%s", d.String())
	}
}

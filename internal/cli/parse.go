package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/floorstack/pkg/io"
	"github.com/matzehuels/floorstack/pkg/survey"
)

// parseCommand creates the parse command, which decodes a survey export into
// the floorstack survey JSON.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "parse [survey.xml]",
		Short: "Decode a RoomScan export into survey JSON",
		Long: `Decode a RoomScan XML export into floorstack survey JSON.

Fields that cannot be read (bad numbers, colours, point lists) are kept on the
record as malformed rather than failing the parse; 'resolve' reports them as
diagnostics.

Examples:
  floorstack parse house.xml                  # Write JSON to stdout
  floorstack parse house.xml -o house.json    # Write JSON to a file`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSurveyFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")

	return cmd
}

func (c *CLI) runParse(ctx context.Context, input, output string, noCache, refresh bool) error {
	logger := loggerFromContext(ctx)

	opts := c.pipelineOptions()
	opts.Refresh = refresh
	if err := readInput(input, &opts); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	b, cacheHit, err := runner.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}
	floors, malformed := surveyCounts(b)
	prog.done(fmt.Sprintf("Parsed %d floors", floors))
	if malformed > 0 {
		logger.Warnf("%d records have unreadable fields", malformed)
	}

	if err := writeOutput(output, func(w io.Writer) error { return pkgio.WriteSurvey(b, w) }); err != nil {
		return err
	}
	if output != "" {
		printSuccess("Parsed %s", input)
		printFile(output)
		printStats(statsLine{floors: floors, cached: cacheHit})
		printNewline()
		printNextStep("Resolve", "floorstack resolve "+output)
	}
	return nil
}

// surveyCounts returns the floor count and the number of records with at
// least one malformed field.
func surveyCounts(b *survey.Building) (floors, malformed int) {
	for _, f := range b.Floors {
		for _, d := range f.Designs {
			for _, a := range d.Areas {
				if len(a.Malformed) > 0 {
					malformed++
				}
			}
			for _, l := range d.Lines {
				if len(l.Malformed) > 0 {
					malformed++
				}
			}
			for _, o := range d.Objects {
				if len(o.Malformed) > 0 {
					malformed++
				}
			}
		}
	}
	return len(b.Floors), malformed
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// writeOutput runs write against the output file (or stdout) and reports the
// first error from writing or closing.
func writeOutput(path string, write func(io.Writer) error) error {
	out, err := openOutput(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

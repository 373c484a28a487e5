package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorstack/pkg/resolve"
)

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// summaryCommand creates the summary command, which prints the resolved
// building as tables.
func (c *CLI) summaryCommand() *cobra.Command {
	var (
		flags resolveFlags
		rooms bool
	)

	cmd := &cobra.Command{
		Use:               "summary [survey]",
		Short:             "Print floors and rooms of a resolved survey",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSurveyFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSummary(cmd.Context(), cmd, args[0], &flags, rooms)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&rooms, "rooms", true, "include the per-room table")

	return cmd
}

func (c *CLI) runSummary(ctx context.Context, cmd *cobra.Command, input string, flags *resolveFlags, rooms bool) error {
	result, err := c.resolveInput(ctx, cmd, input, flags)
	if err != nil {
		return err
	}
	writeSummary(cmd.OutOrStdout(), result.Building, rooms)
	printStats(statsFromResult(result))
	printDiagnostics(result.Building.Diagnostics)
	return nil
}

func writeSummary(w io.Writer, b *resolve.Building, rooms bool) {
	fmt.Fprintln(w, StyleTitle.Render(b.Name))
	fmt.Fprintln(w, floorTable(b))
	if rooms {
		fmt.Fprintln(w, roomTable(b))
	}
}

// floorTable lists each floor with its level, height and room count.
func floorTable(b *resolve.Building) string {
	rows := make([][]string, 0, len(b.Floors))
	for _, f := range b.Floors {
		rows = append(rows, []string{
			f.Name,
			formatMeters(f.Level),
			formatMeters(f.Height),
			strconv.Itoa(len(f.Rooms)),
		})
	}
	return newTable("Floor", "Level", "Height", "Rooms").Rows(rows...).Render()
}

// roomTable lists every room with its area and fixture counts.
func roomTable(b *resolve.Building) string {
	var rows [][]string
	for _, f := range b.Floors {
		for _, r := range f.Rooms {
			var doors, windows, openings int
			for _, w := range r.Walls {
				doors += len(w.Doors)
				windows += len(w.Windows)
				openings += len(w.Openings)
			}
			rows = append(rows, []string{
				f.Name,
				r.Name,
				fmt.Sprintf("%.2f m²", r.Area),
				formatMeters(r.Height),
				strconv.Itoa(len(r.Walls)),
				strconv.Itoa(doors),
				strconv.Itoa(windows),
				strconv.Itoa(openings),
			})
		}
	}
	return newTable("Floor", "Room", "Area", "Height", "Walls", "Doors", "Windows", "Openings").Rows(rows...).Render()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})
}

func formatMeters(v float64) string {
	return fmt.Sprintf("%.2f m", v)
}

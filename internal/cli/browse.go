package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorstack/pkg/adjacency"
	"github.com/matzehuels/floorstack/pkg/geom"
	"github.com/matzehuels/floorstack/pkg/resolve"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command, an interactive explorer of a
// resolved building.
func (c *CLI) browseCommand() *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:               "browse [survey]",
		Short:             "Explore floors, rooms and walls interactively",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSurveyFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), cmd, args[0], &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, cmd *cobra.Command, input string, flags *resolveFlags) error {
	result, err := c.resolveInput(ctx, cmd, input, flags)
	if err != nil {
		return err
	}
	p := tea.NewProgram(NewBrowseModel(result.Building, result.Graph), tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// =============================================================================
// BrowseModel - Interactive building explorer
// =============================================================================

// browseLevel is the depth the explorer is showing.
type browseLevel int

const (
	levelFloors browseLevel = iota
	levelRooms
	levelRoom
)

// BrowseModel is the bubbletea model for drilling from floors to rooms to a
// single room's walls and fixtures.
type BrowseModel struct {
	Building *resolve.Building
	Graph    *adjacency.Graph

	level  browseLevel
	floor  int
	cursor int
	height int
	offset int
}

// NewBrowseModel creates a browse model positioned on the floor list.
func NewBrowseModel(b *resolve.Building, g *adjacency.Graph) BrowseModel {
	return BrowseModel{Building: b, Graph: g, height: 15}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < m.items()-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter", "right", "l":
			m = m.descend()
		case "esc", "left", "h", "backspace":
			m = m.ascend()
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// items is the number of selectable rows at the current level.
func (m BrowseModel) items() int {
	switch m.level {
	case levelFloors:
		return len(m.Building.Floors)
	case levelRooms:
		return len(m.Building.Floors[m.floor].Rooms)
	default:
		return 0
	}
}

func (m BrowseModel) descend() BrowseModel {
	if m.items() == 0 {
		return m
	}
	switch m.level {
	case levelFloors:
		m.floor = m.cursor
		m.level = levelRooms
		m.cursor, m.offset = 0, 0
	case levelRooms:
		m.level = levelRoom
	}
	return m
}

func (m BrowseModel) ascend() BrowseModel {
	switch m.level {
	case levelRoom:
		m.level = levelRooms
	case levelRooms:
		m.level = levelFloors
		m.cursor, m.offset = m.floor, 0
		if m.cursor >= m.height {
			m.offset = m.cursor - m.height + 1
		}
	}
	return m
}

func (m BrowseModel) View() string {
	var b strings.Builder

	switch m.level {
	case levelFloors:
		b.WriteString(StyleTitle.Render(m.Building.Name))
	case levelRooms:
		b.WriteString(StyleTitle.Render(m.Building.Name + " › " + m.Building.Floors[m.floor].Name))
	case levelRoom:
		f := m.Building.Floors[m.floor]
		b.WriteString(StyleTitle.Render(m.Building.Name + " › " + f.Name + " › " + f.Rooms[m.cursor].Name))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  esc back  q quit"))
	b.WriteString("\n\n")

	switch m.level {
	case levelFloors:
		m.writeFloors(&b)
	case levelRooms:
		m.writeRooms(&b)
	case levelRoom:
		m.writeRoom(&b)
	}
	return b.String()
}

func (m BrowseModel) writeList(b *strings.Builder, lines []string) {
	end := m.offset + m.height
	if end > len(lines) {
		end = len(lines)
	}
	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + lines[i]))
		} else {
			b.WriteString(listNormalStyle.Render("  " + lines[i]))
		}
		b.WriteString("\n")
	}
	if len(lines) == 0 {
		b.WriteString(listDimStyle.Render("  (empty)"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.cursor+1, len(lines)), len(lines))))
}

func (m BrowseModel) writeFloors(b *strings.Builder) {
	lines := make([]string, len(m.Building.Floors))
	for i, f := range m.Building.Floors {
		lines[i] = fmt.Sprintf("%-20s level %7.2f m  height %5.2f m  %d rooms", f.Name, f.Level, f.Height, len(f.Rooms))
	}
	m.writeList(b, lines)
}

func (m BrowseModel) writeRooms(b *strings.Builder) {
	f := m.Building.Floors[m.floor]
	lines := make([]string, len(f.Rooms))
	for i, r := range f.Rooms {
		lines[i] = fmt.Sprintf("%-20s %7.2f m²  %d walls", r.Name, r.Area, len(r.Walls))
	}
	m.writeList(b, lines)
}

func (m BrowseModel) writeRoom(b *strings.Builder) {
	f := m.Building.Floors[m.floor]
	r := f.Rooms[m.cursor]

	bound := geom.Bounds([]geom.Point(r.Boundary))
	b.WriteString(fmt.Sprintf("  area %.2f m²  height %.2f m  extent %.2f × %.2f m\n",
		r.Area, r.Height, bound.Right()-bound.Left(), bound.Top()-bound.Bottom()))

	if m.Graph != nil {
		var names []string
		for _, key := range m.Graph.Neighbors(adjacency.Key(f.Name, r.ID)) {
			if n, ok := m.Graph.Node(key); ok {
				names = append(names, n.Name)
			}
		}
		if len(names) > 0 {
			b.WriteString("  connects to " + StyleValue.Render(strings.Join(names, ", ")) + "\n")
		}
	}
	b.WriteString("\n")

	for _, w := range r.Walls {
		b.WriteString(listNormalStyle.Render(fmt.Sprintf("  wall %-6s %5.2f m", w.ID, w.Length)))
		b.WriteString("\n")
		for _, d := range w.Doors {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("    %s %.2f m → %s", d.Type, d.Width, d.Destination)))
			b.WriteString("\n")
		}
		for _, win := range w.Windows {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("    window %.2f m, sill %.2f m", win.Width, win.Sill)))
			b.WriteString("\n")
		}
		for _, o := range w.Openings {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("    %s %.2f m", o.Type, o.Width)))
			b.WriteString("\n")
		}
	}
}

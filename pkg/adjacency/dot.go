package adjacency

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/floorstack/pkg/survey"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds floor area to room labels and door types to edges.
	Detailed bool
}

// ToDOT converts a connectivity graph to Graphviz DOT source. Rooms are
// grouped into one cluster per floor. The result can be rendered with
// [RenderSVG] or any external Graphviz tool.
func ToDOT(g *Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")

	var floors []string
	byFloor := make(map[string][]Node)
	var loose []Node
	for _, n := range g.Nodes {
		if n.Floor == "" {
			loose = append(loose, n)
			continue
		}
		if _, ok := byFloor[n.Floor]; !ok {
			floors = append(floors, n.Floor)
		}
		byFloor[n.Floor] = append(byFloor[n.Floor], n)
	}

	for i, f := range floors {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", f)
		buf.WriteString("    style=\"rounded,dashed\";\n")
		for _, n := range byFloor[f] {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.Key, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
		}
		buf.WriteString("  }\n")
	}
	if len(loose) > 0 {
		buf.WriteString("\n")
		for _, n := range loose {
			fmt.Fprintf(&buf, "  %q [%s];\n", n.Key, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if opts.Detailed && e.Type != "" {
			fmt.Fprintf(&buf, "  %q -- %q [label=%q];\n", e.From, e.To, e.Type)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n Node, detailed bool) string {
	if !detailed || n.Kind != KindRoom {
		return n.Name
	}
	return fmt.Sprintf("%s\n%.1f m²", n.Name, n.Area)
}

func fmtAttrs(n Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	switch n.Kind {
	case KindRoom:
		fill, font := nodeColors(n.Color)
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill), fmt.Sprintf("fontcolor=%q", font))
	case KindArea:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case KindExterior:
		attrs = append(attrs, "shape=ellipse", "style=dashed")
	}
	return attrs
}

// nodeColors returns the fill colour of a room node and a font colour that
// stays readable on it.
func nodeColors(c survey.RGB) (fill, font string) {
	col := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	if c == (survey.RGB{}) {
		col = colorful.Color{R: 1, G: 1, B: 1}
	}
	l, _, _ := col.Lab()
	if l < 0.5 {
		return col.Hex(), "white"
	}
	return col.Hex(), "black"
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales from a zero
// origin at its natural size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

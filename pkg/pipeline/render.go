package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/floorstack/pkg/adjacency"
	pkgio "github.com/matzehuels/floorstack/pkg/io"
	"github.com/matzehuels/floorstack/pkg/resolve"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, b *resolve.Building, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)

		switch format {
		case FormatJSON:
			data, err = marshalBuilding(b)
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = adjacency.ToDOT(adjacency.Build(b), adjacency.Options{Detailed: opts.Detailed})
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = adjacency.RenderSVG(ctx, dot)
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// marshalBuilding is the canonical encoding of a resolved building.
func marshalBuilding(b *resolve.Building) ([]byte, error) {
	var buf bytes.Buffer
	if err := pkgio.WriteBuilding(b, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/floorstack/pkg/resolve"
	"github.com/matzehuels/floorstack/pkg/survey"
)

func writeIndented(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func exportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSurvey encodes a survey as JSON and writes it to w.
// The output can be re-imported with [ReadSurvey].
func WriteSurvey(b *survey.Building, w io.Writer) error {
	return writeIndented(b, w)
}

// ExportSurvey writes a survey to a JSON file at path.
func ExportSurvey(b *survey.Building, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteSurvey(b, w) })
}

// WriteBuilding encodes a resolved building as JSON and writes it to w.
// Diagnostics are included when present.
func WriteBuilding(b *resolve.Building, w io.Writer) error {
	return writeIndented(b, w)
}

// ExportBuilding writes a resolved building to a JSON file at path.
func ExportBuilding(b *resolve.Building, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteBuilding(b, w) })
}

package pipeline

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/floorstack/pkg/cache"
	"github.com/matzehuels/floorstack/pkg/errors"
	"github.com/matzehuels/floorstack/pkg/resolve"
)

func readCottage(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../survey/roomscan/testdata/cottage.xml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidOption) {
			t.Errorf("ValidateFormat(%q) code = %s, want %s", tt.format, errors.GetCode(err), errors.ErrCodeInvalidOption)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidateForParse(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantFormat string
		wantCode   errors.Code
	}{
		{"detect roomscan", Options{Input: []byte("x"), Filename: "house.xml"}, errors.FormatRoomScan, ""},
		{"detect json", Options{Input: []byte("x"), Filename: "house.json"}, errors.FormatJSON, ""},
		{"explicit format wins", Options{Input: []byte("x"), Filename: "house.xml", Format: errors.FormatJSON}, errors.FormatJSON, ""},
		{"empty input", Options{Filename: "house.xml"}, "", errors.ErrCodeInvalidInput},
		{"no format or filename", Options{Input: []byte("x")}, "", errors.ErrCodeInvalidFormat},
		{"unknown extension", Options{Input: []byte("x"), Filename: "house.pdf"}, "", errors.ErrCodeInvalidFormat},
		{"unknown format", Options{Input: []byte("x"), Format: "dxf"}, "", errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForParse()
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.opts.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", tt.opts.Format, tt.wantFormat)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: []byte("x"), Filename: "house.xml"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if opts.UnknownFixtures != resolve.DefaultUnknownFixtures {
		t.Errorf("UnknownFixtures should be %q, got %q", resolve.DefaultUnknownFixtures, opts.UnknownFixtures)
	}
	if !cmp.Equal(opts.Formats, DefaultFormats) {
		t.Errorf("Formats should be %v, got %v", DefaultFormats, opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestOptionsInvalidResolveSettings(t *testing.T) {
	opts := Options{UnknownFixtures: "guess"}
	if err := opts.ValidateForResolve(); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("unknown policy: error = %v, want %s", err, errors.ErrCodeInvalidOption)
	}

	opts = Options{Concurrency: -1}
	if err := opts.ValidateForResolve(); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("negative concurrency: error = %v, want %s", err, errors.ErrCodeInvalidOption)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Input: []byte("x"), Filename: "house.xml"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts.String()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if got := opts.String(); got != first {
		t.Errorf("options changed on second call: %q -> %q", first, got)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Detailed: true}
	if got := opts.ArtifactKeyOpts(FormatJSON); got.Detailed {
		t.Error("json artifacts should ignore Detailed")
	}
	if got := opts.ArtifactKeyOpts(FormatDOT); !got.Detailed {
		t.Error("dot artifacts should honour Detailed")
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Input:    readCottage(t),
		Filename: "cottage.xml",
		Formats:  []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if result.Survey.Name != "Cottage" {
		t.Errorf("Survey.Name = %q, want Cottage", result.Survey.Name)
	}
	if result.Stats.Floors != 2 {
		t.Errorf("Floors = %d, want 2", result.Stats.Floors)
	}
	if result.Stats.Doors != 1 || result.Stats.Windows != 1 {
		t.Errorf("Doors, Windows = %d, %d, want 1, 1", result.Stats.Doors, result.Stats.Windows)
	}
	if result.Stats.Diagnostics == 0 {
		t.Error("expected diagnostics for the malformed loft and the dangling door")
	}
	if _, ok := result.Graph.Node("Ground/1"); !ok {
		t.Error("graph should contain the kitchen")
	}

	if !bytes.HasPrefix(result.Artifacts[FormatJSON], []byte("{")) {
		t.Errorf("json artifact does not look like JSON: %.40q", result.Artifacts[FormatJSON])
	}
	if !strings.Contains(string(result.Artifacts[FormatDOT]), "graph") {
		t.Errorf("dot artifact does not look like DOT: %.40q", result.Artifacts[FormatDOT])
	}
	if result.CacheInfo != (CacheInfo{}) {
		t.Errorf("null cache should never hit, got %+v", result.CacheInfo)
	}
}

func TestExecuteStrict(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), Options{
		Input:    readCottage(t),
		Filename: "cottage.xml",
		Strict:   true,
	})
	if err == nil {
		t.Fatal("strict mode should fail on a survey with diagnostics")
	}
	if errors.GetCode(err) == "" {
		t.Errorf("strict failure should carry an error code: %v", err)
	}
}

func TestExecuteInvalidInput(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), Options{
		Input:  []byte("<project><floors>"),
		Format: errors.FormatRoomScan,
	})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Execute(ctx, Options{Input: readCottage(t), Filename: "cottage.xml"}); err == nil {
		t.Error("cancelled context should abort the run")
	}
}

func TestExecuteCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{
		Input:    readCottage(t),
		Filename: "cottage.xml",
		Formats:  []string{FormatJSON, FormatDOT},
	}
	ctx := context.Background()

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.CacheInfo != (CacheInfo{}) {
		t.Errorf("first run should miss, got %+v", first.CacheInfo)
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	want := CacheInfo{ParseHit: true, ResolveHit: true, RenderHit: true}
	if second.CacheInfo != want {
		t.Errorf("second run CacheInfo = %+v, want %+v", second.CacheInfo, want)
	}
	if diff := cmp.Diff(first.Building, second.Building, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("cached building differs (-first +second):\n%s", diff)
	}
	if !bytes.Equal(first.Artifacts[FormatDOT], second.Artifacts[FormatDOT]) {
		t.Error("cached dot artifact differs")
	}
	if first.SurveyHash != second.SurveyHash || first.ResolvedHash != second.ResolvedHash {
		t.Error("hashes should be stable across cache hits")
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh run: %v", err)
	}
	if third.CacheInfo != (CacheInfo{}) {
		t.Errorf("refresh should bypass the cache, got %+v", third.CacheInfo)
	}

	// Different resolver options must not share the resolved entry.
	opts.Refresh = false
	opts.UnknownFixtures = resolve.UnknownGap
	fourth, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("gap run: %v", err)
	}
	if !fourth.CacheInfo.ParseHit || fourth.CacheInfo.ResolveHit {
		t.Errorf("gap run CacheInfo = %+v, want parse hit and resolve miss", fourth.CacheInfo)
	}
}

func TestRunnerStages(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	b, err := runner.Parse(ctx, Options{Input: readCottage(t), Filename: "cottage.xml"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rb, err := runner.Resolve(ctx, b, Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	artifacts, err := runner.Render(ctx, rb, Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(artifacts[FormatSVG]), "<svg") {
		t.Errorf("svg artifact does not look like SVG: %.60q", artifacts[FormatSVG])
	}
}

func TestJSONSurveyInput(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	fromXML, err := runner.Execute(ctx, Options{Input: readCottage(t), Filename: "cottage.xml"})
	if err != nil {
		t.Fatalf("xml run: %v", err)
	}
	data, err := marshalSurvey(fromXML.Survey)
	if err != nil {
		t.Fatal(err)
	}

	fromJSON, err := runner.Execute(ctx, Options{Input: data, Format: errors.FormatJSON})
	if err != nil {
		t.Fatalf("json run: %v", err)
	}
	if diff := cmp.Diff(fromXML.Building, fromJSON.Building, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("json survey resolves differently (-xml +json):\n%s", diff)
	}
}

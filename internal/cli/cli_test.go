package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgio "github.com/matzehuels/floorstack/pkg/io"
	"github.com/matzehuels/floorstack/pkg/pipeline"
)

// setupWorkspace copies the cottage survey into a temp dir and points the
// config and cache at it.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	data, err := os.ReadFile("../../pkg/survey/roomscan/testdata/cottage.xml")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cottage.xml"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseAndResolveCommands(t *testing.T) {
	dir := setupWorkspace(t)
	xml := filepath.Join(dir, "cottage.xml")
	surveyJSON := filepath.Join(dir, "cottage.json")

	if _, err := runCLI(t, "parse", xml, "-o", surveyJSON); err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, err := pkgio.ImportSurvey(surveyJSON)
	if err != nil {
		t.Fatalf("import parsed survey: %v", err)
	}
	if b.Name != "Cottage" || len(b.Floors) != 2 {
		t.Errorf("parsed survey = %q with %d floors", b.Name, len(b.Floors))
	}

	if _, err := runCLI(t, "resolve", xml, "-f", "json,dot"); err != nil {
		t.Fatalf("resolve xml: %v", err)
	}
	fromXML, err := pkgio.ImportBuilding(filepath.Join(dir, "cottage.resolved.json"))
	if err != nil {
		t.Fatalf("import resolved: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cottage.dot")); err != nil {
		t.Errorf("dot artifact missing: %v", err)
	}

	// The JSON survey resolves to the same building, written over the same path.
	if _, err := runCLI(t, "resolve", surveyJSON); err != nil {
		t.Fatalf("resolve json: %v", err)
	}
	fromJSON, err := pkgio.ImportBuilding(filepath.Join(dir, "cottage.resolved.json"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fromXML, fromJSON); diff != "" {
		t.Errorf("xml and json surveys resolve differently (-xml +json):\n%s", diff)
	}
}

func TestResolveCommandStrict(t *testing.T) {
	dir := setupWorkspace(t)
	if _, err := runCLI(t, "resolve", filepath.Join(dir, "cottage.xml"), "--strict"); err == nil {
		t.Error("strict resolve of a survey with diagnostics should fail")
	}
}

func TestResolveCommandBadFlags(t *testing.T) {
	dir := setupWorkspace(t)
	xml := filepath.Join(dir, "cottage.xml")

	if _, err := runCLI(t, "resolve", xml, "--unknown-fixtures", "guess"); err == nil {
		t.Error("unknown fixture policy should fail")
	}
	if _, err := runCLI(t, "resolve", xml, "-f", "png"); err == nil {
		t.Error("unknown output format should fail")
	}
	if _, err := runCLI(t, "graph", xml, "-f", "json"); err == nil {
		t.Error("graph should only accept svg or dot")
	}
}

func TestGraphCommand(t *testing.T) {
	dir := setupWorkspace(t)
	out := filepath.Join(dir, "rooms.dot")

	if _, err := runCLI(t, "graph", filepath.Join(dir, "cottage.xml"), "-f", "dot", "-o", out, "--detailed"); err != nil {
		t.Fatalf("graph: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Kitchen") {
		t.Errorf("graph should name the kitchen:\n%s", data)
	}
}

func TestSummaryCommand(t *testing.T) {
	dir := setupWorkspace(t)
	out, err := runCLI(t, "summary", filepath.Join(dir, "cottage.xml"), "--no-cache")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	for _, want := range []string{"Cottage", "Ground", "Kitchen", "Hall"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output lacks %q:\n%s", want, out)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := runCLI(t, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "config", appName, "config.toml"); strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), want)
	}

	cfgPath := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(cfgPath, []byte("[resolve]\nconcurrency = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "concurrency = 3") {
		t.Errorf("config show should reflect the file:\n%s", out)
	}

	if err := os.WriteFile(cfgPath, []byte("[cache]\nbackend = \"tape\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "--config", cfgPath, "config", "show"); err == nil {
		t.Error("invalid config should fail before the command runs")
	}
}

func TestCacheCommands(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	cacheDir := strings.TrimSpace(out)
	if want := filepath.Join(dir, "cache", appName); cacheDir != want {
		t.Errorf("cache path = %q, want %q", cacheDir, want)
	}

	if _, err := runCLI(t, "resolve", filepath.Join(dir, "cottage.xml")); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(cacheDir)
	if len(entries) == 0 {
		t.Fatal("resolve should populate the cache")
	}

	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	c := New(io.Discard, LogInfo)
	ch, err := c.newCache(t.Context(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer ch.Close()
	if n, err := ch.Clear(t.Context()); err != nil || n != 0 {
		t.Errorf("cache should be empty after clear, Clear() = %d, %v", n, err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{pipeline.FormatJSON}},
		{"svg", []string{"svg"}},
		{"json, dot,,svg", []string{"json", "dot", "svg"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !cmp.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "floorstack") {
		t.Error("bash completion should mention the program name")
	}
}

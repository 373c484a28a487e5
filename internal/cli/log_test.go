package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorstack/pkg/observability"
)

// runWithLogger runs the root command with a logger writing to the returned
// buffer. extra is added to the root before execution.
func runWithLogger(t *testing.T, extra *cobra.Command, args ...string) (*CLI, string, error) {
	t.Helper()
	t.Cleanup(observability.Reset)

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	if extra != nil {
		root.AddCommand(extra)
	}
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return c, logs.String(), err
}

// echoCommand logs one debug and one info line through the context logger.
func echoCommand() *cobra.Command {
	return &cobra.Command{
		Use: "echo",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := loggerFromContext(cmd.Context())
			l.Debug("debug line")
			l.Info("info line")
			return nil
		},
	}
}

func TestVerboseFlag(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantDebug bool
	}{
		{"default", []string{"echo"}, false},
		{"long", []string{"--verbose", "echo"}, true},
		{"short", []string{"-v", "echo"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupWorkspace(t)
			c, logs, err := runWithLogger(t, echoCommand(), tt.args...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if !strings.Contains(logs, "info line") {
				t.Errorf("info line missing:\n%s", logs)
			}
			if got := strings.Contains(logs, "debug line"); got != tt.wantDebug {
				t.Errorf("debug line logged = %v, want %v:\n%s", got, tt.wantDebug, logs)
			}
			if got := c.Logger.GetLevel() == LogDebug; got != tt.wantDebug {
				t.Errorf("logger level = %v", c.Logger.GetLevel())
			}
		})
	}
}

func TestVerboseInstallsLogHooks(t *testing.T) {
	setupWorkspace(t)
	if _, _, err := runWithLogger(t, echoCommand(), "-v", "echo"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := observability.Pipeline().(*observability.LogHooks); !ok {
		t.Errorf("pipeline hooks = %T, want *LogHooks", observability.Pipeline())
	}
	if _, ok := observability.Cache().(*observability.LogHooks); !ok {
		t.Errorf("cache hooks = %T, want *LogHooks", observability.Cache())
	}
}

func TestCommandContextCarriesLogger(t *testing.T) {
	setupWorkspace(t)

	var fromCtx *log.Logger
	cmd := &cobra.Command{
		Use: "ctx",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromCtx = loggerFromContext(cmd.Context())
			return nil
		},
	}
	c, _, err := runWithLogger(t, cmd, "ctx")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if fromCtx != c.Logger {
		t.Error("command context should carry the CLI logger")
	}
}

func TestResolveLogsProgress(t *testing.T) {
	dir := setupWorkspace(t)

	_, logs, err := runWithLogger(t, nil, "resolve", dir+"/cottage.xml", "--no-cache")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	re := regexp.MustCompile(`INFO Resolved \d+ rooms on 2 floors \(\d+(\.\d+)?(ms|s|µs)\)`)
	if !re.MatchString(logs) {
		t.Errorf("resolve progress line missing:\n%s", logs)
	}
}

func TestParseLogsProgress(t *testing.T) {
	dir := setupWorkspace(t)

	_, logs, err := runWithLogger(t, nil, "parse", dir+"/cottage.xml", "-o", dir+"/cottage.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(logs, "Parsed 2 floors (") {
		t.Errorf("parse progress line missing:\n%s", logs)
	}
}

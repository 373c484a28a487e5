package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorstack/internal/api"
	"github.com/matzehuels/floorstack/pkg/observability"
)

// serveCommand creates the serve command, which runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolve pipeline over HTTP",
		Long: `Serve the resolve pipeline over HTTP.

Endpoints:
  POST /v1/resolve   resolve an uploaded survey (XML or JSON)
  GET  /healthz      liveness
  GET  /version      build information

The cache backend comes from the config file; use redis or mongo to share
results between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	observability.SetHTTPHooks(observability.NewLogHooks(logger))

	srv := api.New(runner, logger, api.Options{
		MaxBodyBytes: c.Config.Server.MaxBodyBytes,
		Defaults:     c.pipelineOptions(),
	})
	return srv.ListenAndServe(ctx, addr)
}

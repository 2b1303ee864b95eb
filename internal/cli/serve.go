package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/objectgraph/internal/server"
	"github.com/matzehuels/objectgraph/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr string
		tf   transformFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve the render API over HTTP.

POST a model document (JSON, TOML, YAML, or msgpack, selected by Content-Type)
to /v1/render?format=svg to receive the diagram, or to /v1/inspect for
statistics and the merge report. Transform flags set the defaults that query
parameters override.`,
		Example: `  objectgraph serve --addr :9000
  curl -H 'Content-Type: application/yaml' --data-binary @model.yaml 'localhost:8080/v1/render?format=puml'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.settings()
			applyTransformConfig(cmd, cfg.Render.Merge, cfg.Render.Humanize, &tf)
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			var defaults pipeline.Options
			tf.apply(&defaults)
			srv := server.New(runner, server.Options{
				Logger:       c.Logger,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
				Defaults:     defaults,
			})
			printInfo("Serving on %s, cache: %s", addr, cacheLocation(cfg))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	addTransformFlags(cmd, &tf)

	return cmd
}

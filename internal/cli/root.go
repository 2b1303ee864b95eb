package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/objectgraph/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The configuration file is loaded in PersistentPreRunE, after flags are
// parsed, and the logger is attached to the command context so subcommands
// can retrieve it with loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "objectgraph renders class diagrams of object models",
		Long: `objectgraph builds an object graph from a database schema, a GraphQL schema, or a
model document, consolidates redundant associations, and renders the result as
PlantUML, Graphviz DOT, SVG, or JSON.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./objectgraph.toml or $XDG_CONFIG_HOME/objectgraph/objectgraph.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/objectgraph/internal/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached graphs and rendered artifacts",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It clears the
// configured backend, whichever it is.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries from the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			cc, err := cfg.OpenCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cc.Close()

			count, err := cc.Clear(cmd.Context())
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %s", plural(count, "cached entry", "cached entries"))
			printDetail("Backend: %s", cacheLocation(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the configured cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(c.settings()))
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory for the file
// backend, an address for the network backends.
func cacheLocation(cfg *config.Config) string {
	switch cfg.Cache.Backend {
	case config.BackendFile:
		return cfg.Cache.Dir
	case config.BackendRedis:
		return "redis://" + cfg.Redis.Addr + "/" + fmt.Sprint(cfg.Redis.DB)
	case config.BackendMongo:
		return displayRef(cfg.Mongo.URI) + " (" + cfg.Mongo.Database + "." + cfg.Mongo.Collection + ")"
	}
	return config.BackendNone
}

// Package cli implements the objectgraph command-line interface.
//
// This package provides commands for building object graphs from databases,
// GraphQL schemas, and model documents, rendering them as class diagrams,
// inspecting and browsing them, serving the HTTP API, and managing the
// cache. The CLI is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
//   - render: Generate PlantUML, DOT, SVG, or JSON from one or more sources
//   - inspect: Print statistics and the merge report for a source
//   - browse: Explore a source interactively by package
//   - serve: Run the HTTP API
//   - cache: Clear the cache or print its location
//   - version: Print build information
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/objectgraph/internal/config"
	"github.com/matzehuels/objectgraph/pkg/pipeline"
	"github.com/matzehuels/objectgraph/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Set by persistent flags and loaded before any command runs.
	configPath string
	noCache    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration once.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}
	c.cfg = cfg
	return nil
}

// settings returns the loaded configuration, loading defaults if needed.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		if err := c.loadConfig(); err != nil {
			c.Logger.Warn("using default config", "error", err)
			c.cfg = &config.Config{Cache: config.CacheConfig{Backend: config.BackendNone}}
		}
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The caller closes it.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cfg := c.settings()
	cc, err := cfg.OpenCache(ctx, c.noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	if cfg.Cache.TTL > 0 {
		r.TTL = cfg.Cache.TTL
	}
	return r, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// sourceFlags holds flags shared by every command that opens a source.
type sourceFlags struct {
	pkg          string
	schema       string
	inverse      bool
	includeRoots bool
}

func (f sourceFlags) options(logger *log.Logger) source.Options {
	return source.Options{
		Package:      f.pkg,
		Schema:       f.schema,
		Inverse:      f.inverse,
		IncludeRoots: f.includeRoots,
		Logger:       logger,
	}
}

// transformFlags holds flags selecting pipeline transforms.
type transformFlags struct {
	merge    bool
	humanize bool
	include  []string
	exclude  []string
}

func (f transformFlags) apply(opts *pipeline.Options) {
	opts.Merge = f.merge
	opts.Humanize = f.humanize
	opts.Include = f.include
	opts.Exclude = f.exclude
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

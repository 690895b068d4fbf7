// Package cli implements the termdiag command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log.
// Diagrams are written to stdout; status lines, warnings and spinners go to
// stderr so output can be piped.
//
// # Commands
//
//   - render: Draw one or more documents to the terminal or a file
//   - view: Browse a rendered diagram in a full-screen pager
//   - export: Convert documents to DOT or canonical JSON
//   - serve: Expose the render pipeline over HTTP
//   - cache: Manage the file cache
//
// # Configuration
//
// An optional TOML file supplies render defaults, the cache backend and the
// server address. Flags always win over the file.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/termdiag/pkg/buildinfo"
	"github.com/matzehuels/termdiag/pkg/cache"
	"github.com/matzehuels/termdiag/pkg/observability"
	"github.com/matzehuels/termdiag/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "termdiag"

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
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level. Debug level also routes pipeline,
// cache and server events to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Install()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "termdiag renders diagrams as terminal text art",
		Long:         `termdiag lays out flowcharts, sequence diagrams and pie charts and draws them with Unicode box-drawing characters or plain ASCII.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/termdiag/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// newCache opens the configured backend. A file cache that cannot be
// created degrades to no caching; remote backends must connect.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	switch cfg.Backend {
	case cache.BackendRedis, cache.BackendMongo:
		s := startSpinner(ctx, "Connecting to "+cfg.Backend+" cache...")
		ch, err := cache.Open(ctx, cfg)
		if err != nil {
			s.fail("Cache unavailable")
			return nil, err
		}
		s.succeed("Connected to " + cfg.Backend + " cache")
		return ch, nil
	}
	if cfg.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		cfg.Dir = dir
	}
	ch, err := cache.Open(ctx, cfg)
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return ch, nil
}

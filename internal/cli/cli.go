package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/yeargrid/pkg/buildinfo"
	"github.com/matzehuels/yeargrid/pkg/cache"
	"github.com/matzehuels/yeargrid/pkg/config"
	"github.com/matzehuels/yeargrid/pkg/errors"
	"github.com/matzehuels/yeargrid/pkg/layout/stack"
	"github.com/matzehuels/yeargrid/pkg/pipeline"
	"github.com/matzehuels/yeargrid/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "yeargrid"

	// redisPrefix namespaces keys in a shared Redis instance.
	redisPrefix = "yeargrid:"
)

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

	// ConfigPath overrides the default config location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "yeargrid lays out a year of calendar events on one page",
		Long: `yeargrid reads calendar exports (Google Calendar JSON or iCalendar),
classifies every event with keyword rules and lays out the whole year as a
grid: multi-day events become bars, single-day events dots or stacked titles.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/yeargrid/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// configPath resolves the config file location.
func (c *CLI) configPath() (string, error) {
	if c.ConfigPath != "" {
		return c.ConfigPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the config file and reports skipped category rules.
func (c *CLI) loadConfig() (*config.Config, error) {
	path, err := c.configPath()
	if err != nil {
		return nil, fmt.Errorf("locate config: %w", err)
	}
	cfg, err := config.Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return nil, fmt.Errorf("no config at %s (run '%s config init'): %w", path, appName, err)
	}
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", path, "calendars", len(cfg.Calendars), "categories", len(cfg.Categories))
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	runner.TTL = cfg.Cache.TTLDuration()
	return runner, nil
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == config.CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, redisPrefix)
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/yeargrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the flags shared by commands that compute a layout.
type layoutFlags struct {
	year    int
	mode    string
	density string
	noCache bool
	refresh bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.year, "year", "y", 0, "year to lay out (default: config year)")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "single-day display: dots, stack (default: config)")
	cmd.Flags().StringVar(&f.density, "density", "", "cell density: compact, normal, comfortable (default: config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if a cached layout exists")
}

// options builds pipeline options from config and flag overrides.
func (f *layoutFlags) options(c *CLI, cfg *config.Config) pipeline.Options {
	opts, ruleErrs := pipeline.FromConfig(cfg)
	for _, err := range ruleErrs {
		printWarning("skipping category: %s", errors.UserMessage(err))
	}
	if f.year != 0 {
		opts.Year = f.year
	}
	if f.mode != "" {
		opts.Mode = strings.ToLower(f.mode)
	}
	if f.density != "" {
		opts.Density = stack.Density(strings.ToLower(f.density))
	}
	opts.Refresh = f.refresh
	opts.Logger = c.Logger
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

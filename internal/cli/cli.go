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

	"github.com/matzehuels/stresslayout/internal/config"
	"github.com/matzehuels/stresslayout/pkg/buildinfo"
	"github.com/matzehuels/stresslayout/pkg/cache"
	"github.com/matzehuels/stresslayout/pkg/observability"
	"github.com/matzehuels/stresslayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stresslayout"

	// redisPrefix namespaces CLI entries in a shared Redis.
	redisPrefix = appName + ":"
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
	Config config.Config

	// configPath overrides the XDG config location (--config).
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stresslayout positions 2D points to match target distances",
		Long: `Stresslayout is a CLI tool for stress-majorization layouts: it moves the points
of a problem document until their pairwise distances match the requested targets,
then renders the result as SVG, PNG, DOT or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			observability.SetSolverHooks(solverLogHooks{logger: c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/stresslayout/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.traceCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())
	registerFlagCompletions(root)

	return root
}

func (c *CLI) loadConfig() error {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner. A nil keyer uses the default keys.
func (c *CLI) newRunner(ctx context.Context, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, keyer, c.Logger)
	runner.TTL = c.Config.Cache.TTL.Duration
	return runner, nil
}

// newCache builds the configured cache backend. An unusable file cache
// directory degrades to no caching; an unreachable Redis is an error.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}

	if cfg.Backend == config.BackendRedis {
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = redisPrefix
		}
		rc := cache.NewRedisCache(cache.RedisOptions{Addr: cfg.RedisAddr, DB: cfg.RedisDB, Prefix: prefix})
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return rc, nil
	}

	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Debug("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stresslayout/).
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

// trimInputExt strips the extension of a problem or layout file. A
// ".layout.json" input loses both parts so outputs land beside the problem.
func trimInputExt(input string) string {
	if base, ok := strings.CutSuffix(input, ".layout.json"); ok {
		return base
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// =============================================================================
// Options Helpers
// =============================================================================

// addSolveFlags registers solver flags on cmd, bound to opts.
func addSolveFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", "", "solver: generic (default), flat")
	cmd.Flags().StringVarP(&opts.Weight, "weight", "w", "", "weight preset: one, distance, inverse, inverse-squared (default), exp-inverse")
	cmd.Flags().StringVar(&opts.Termination, "termination", "", "stopping rule: epsilon, delta (default depends on algorithm)")
	cmd.Flags().Float64Var(&opts.Epsilon, "epsilon", 0, "convergence threshold (default 1e-6)")
	cmd.Flags().IntVar(&opts.MaxIterations, "max-iterations", 0, "iteration cap, negative for none (default 10000)")
	cmd.Flags().Float64Var(&opts.DefaultTarget, "target", 0, "target distance for pairs without one (default: problem value or 100)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached layouts")
}

// addRenderFlags registers render flags on cmd. Formats are read from
// formatsStr by resolveFormats.
func addRenderFlags(cmd *cobra.Command, opts *pipeline.Options, formatsStr *string) {
	cmd.Flags().StringVarP(formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "frame width (default 800)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "frame height (default 600)")
	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "frame inset (default 40)")
	cmd.Flags().BoolVar(&opts.ShowTargets, "targets", false, "draw explicit targets as labeled edges")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "add coordinate tooltips (svg)")
}

// resolveOptions merges flags, config and pipeline defaults, in that order.
func (c *CLI) resolveOptions(opts *pipeline.Options, formatsStr string) error {
	if formatsStr != "" {
		opts.Formats = parseFormats(formatsStr)
	}
	c.Config.Apply(opts)
	opts.Logger = c.Logger
	return opts.ValidateAndSetDefaults()
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	formats := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			formats = append(formats, strings.ToLower(p))
		}
	}
	return formats
}

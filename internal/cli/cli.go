// Package cli implements the labelsheet command-line interface.
//
// The CLI lays out batches of labels on paper and writes the laser-cutting
// SVG, the print PDF, single-sheet previews and the layout JSON. It is built
// with cobra; output styling uses lipgloss and the print export shows a
// bubbletea progress view when stderr is a terminal.
//
// # Commands
//
//   - render: run a job file (or the starter job) and write outputs
//   - plan: show the grid a label size produces on a paper
//   - sequence: print the data values a batch expands to
//   - papers: list the paper catalogue
//   - init: write the starter job to a file for editing
//   - serve: run the HTTP API
//   - cache: inspect and clear the artifact and download caches
//
// # Configuration
//
// Optional settings live in $XDG_CONFIG_HOME/labelsheet/config.toml (or the
// file named by --config). Flags override the file; the file overrides the
// built-in defaults.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/assets"
	"github.com/matzehuels/labelsheet/pkg/buildinfo"
	"github.com/matzehuels/labelsheet/pkg/cache"
	"github.com/matzehuels/labelsheet/pkg/httputil"
	"github.com/matzehuels/labelsheet/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "labelsheet"

	// redisPrefix namespaces artifact keys in a shared Redis.
	redisPrefix = "labelsheet:"
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
	Config Config

	configPath string
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
		Use:          appName,
		Short:        "Labelsheet lays out batches of QR labels for print and laser cutting",
		Long:         `Labelsheet renders a label design once per data value, places the labels on a paper grid, and writes a laser-cutting SVG or a print-ready PDF.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", defaultConfigPath(), "config file")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.sequenceCommand())
	root.AddCommand(c.papersCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner using the configured cache backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	// Artifacts are keyed by build so a new renderer never serves stale output.
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Get().Version+":")
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	runner.Assets, err = c.newResolver(".")
	if err != nil {
		runner.Close()
		return nil, err
	}
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		prefix := c.Config.Cache.RedisPrefix
		if prefix == "" {
			prefix = redisPrefix
		}
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Config.Cache.RedisAddr,
			Password: c.Config.Cache.RedisPassword,
			DB:       c.Config.Cache.RedisDB,
			Prefix:   prefix,
		})
	}
	dir, err := c.artifactDir()
	if err != nil {
		c.Logger.Warn("artifact cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newResolver returns the asset resolver. Remote images are fetched only
// when the config allows it; downloads are cached on disk.
func (c *CLI) newResolver(baseDir string) (*assets.Resolver, error) {
	r := &assets.Resolver{BaseDir: baseDir, Logger: c.Logger}
	if !c.Config.Assets.AllowRemote {
		return r, nil
	}
	root, err := cacheDir()
	if err != nil {
		return nil, err
	}
	hc, err := httputil.NewCache(filepath.Join(root, "http"), c.Config.Assets.CacheTTL)
	if err != nil {
		return nil, err
	}
	r.Client = httputil.NewClient(hc, map[string]string{"User-Agent": appName + "/" + buildinfo.Get().Version})
	return r, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache root using XDG standard (~/.cache/labelsheet/).
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

// artifactDir returns the rendered-output cache directory.
func (c *CLI) artifactDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	root, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "artifacts"), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

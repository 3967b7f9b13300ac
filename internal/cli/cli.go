// Package cli implements the portraitgrid command-line interface.
//
// This package provides commands for composing photo grids, previewing a
// single category, inspecting layouts, managing the font index and the
// image cache, browsing the run history and serving the planning API. The
// CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - compose: Render every category folder onto the background
//   - preview: Render one category to a preview file
//   - plan: Print the grid a photo count produces
//   - fonts: Scan, list and resolve fonts
//   - config, cache, history: Inspect configuration, cache and past runs
//   - serve: Run the HTTP planning API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/portraitgrid/pkg/buildinfo"
	"github.com/matzehuels/portraitgrid/pkg/cache"
	"github.com/matzehuels/portraitgrid/pkg/config"
	"github.com/matzehuels/portraitgrid/pkg/fonts"
	"github.com/matzehuels/portraitgrid/pkg/history"
	"github.com/matzehuels/portraitgrid/pkg/pipeline"
	"github.com/matzehuels/portraitgrid/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "portraitgrid"

	configFileName  = "config.toml"
	fontIndexName   = "fonts.db"
	historyFileName = "history.jsonl"
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

	// ConfigPath overrides the configuration file location.
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
		Use:          appName,
		Short:        "Portraitgrid lays out portrait photos in three-row grids",
		Long:         `Portraitgrid composes one canvas per folder of portrait photos: every photo placed in three balanced rows on a background, captioned with the person's name and titled with the folder name.`,
		Version:      buildinfo.Current(),
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/portraitgrid/config.toml)")

	root.AddCommand(c.composeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration & Backends
// =============================================================================

// loadApp reads the configuration file. A malformed file is reported and
// the defaults are used.
func (c *CLI) loadApp() config.App {
	path, err := c.configPath()
	if err != nil {
		return config.DefaultApp()
	}
	app, err := config.LoadApp(path)
	if err != nil {
		c.Logger.Warn("config file ignored", "path", path, "error", err)
	}
	return app
}

func (c *CLI) configPath() (string, error) {
	if c.ConfigPath != "" {
		return c.ConfigPath, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, app config.App, noCache bool) (*pipeline.Runner, error) {
	src, err := c.newSource(ctx, app, noCache)
	if err != nil {
		return nil, err
	}
	resolver, closeFonts := c.newResolver(ctx, app)
	store, err := c.newHistory(ctx, app)
	if err != nil {
		closeFonts()
		return nil, errors.Join(err, src.Cache.Close())
	}
	r := pipeline.NewRunner(src, resolver, &closingStore{Store: store, also: closeFonts}, c.Logger)
	return r, nil
}

// newSource creates the image source with the configured cache backend.
func (c *CLI) newSource(ctx context.Context, app config.App, noCache bool) (*render.Source, error) {
	cc, err := newCache(ctx, app.Cache, noCache)
	if err != nil {
		return nil, err
	}
	src := render.NewSource(cc, newKeyer(app.Cache, noCache), c.Logger)
	if app.Cache.TTL.Duration > 0 {
		src.TTL = app.Cache.TTL.Duration
	}
	return src, nil
}

// newKeyer prefixes keys on the shared Redis backend; other backends are
// private to this install and use the default keys.
func newKeyer(cfg config.CacheConfig, noCache bool) cache.Keyer {
	if noCache || cfg.Backend != config.BackendRedis {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, appName+":")
}

func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.Redis)
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newResolver opens the font index when one exists. The returned func
// closes it.
func (c *CLI) newResolver(ctx context.Context, app config.App) (*fonts.Resolver, func()) {
	r := &fonts.Resolver{Default: app.Fonts.Default, Logger: c.Logger}
	path, err := fontIndexPath(app)
	if err != nil {
		return r, func() {}
	}
	if _, err := os.Stat(path); err != nil {
		c.Logger.Debug("no font index, searching system fonts directly", "path", path)
		return r, func() {}
	}
	idx, err := fonts.OpenIndex(ctx, path)
	if err != nil {
		c.Logger.Warn("font index unusable", "path", path, "error", err)
		return r, func() {}
	}
	r.Index = idx
	return r, func() { idx.Close() }
}

func (c *CLI) newHistory(ctx context.Context, app config.App) (history.Store, error) {
	switch app.History.Backend {
	case config.BackendNone:
		return history.NewNullStore(), nil
	case config.BackendMongo:
		return history.NewMongoStore(ctx, app.History.MongoURI, app.History.Database)
	}
	path := app.History.Path
	if path == "" {
		dir, err := dataDir()
		if err != nil {
			return history.NewNullStore(), nil
		}
		path = filepath.Join(dir, historyFileName)
	}
	return history.NewFileStore(path)
}

// closingStore closes additional resources with the history store.
type closingStore struct {
	history.Store
	also func()
}

func (s *closingStore) Close() error {
	s.also()
	return s.Store.Close()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/portraitgrid/).
func cacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// configDir returns the configuration directory (~/.config/portraitgrid/).
func configDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// dataDir returns the data directory (~/.local/share/portraitgrid/).
func dataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

func fontIndexPath(app config.App) (string, error) {
	if app.Fonts.Index != "" {
		return app.Fonts.Index, nil
	}
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fontIndexName), nil
}

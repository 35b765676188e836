package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgrid/internal/config"
	"github.com/matzehuels/blockgrid/pkg/buildinfo"
	"github.com/matzehuels/blockgrid/pkg/grid"
	"github.com/matzehuels/blockgrid/pkg/observability"
	"github.com/matzehuels/blockgrid/pkg/store"
	"github.com/matzehuels/blockgrid/pkg/workspace"
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

	configPath string // --config
	workspace  string // --workspace, overrides the config file
	backend    string // --store, overrides the config file
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
		Short: "Blockgrid edits numbered block grids",
		Long: `Blockgrid maintains a two-dimensional grid of blocks framed by numbered row
and column headers. Grids live in named workspaces that are saved to the
configured store after every change.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			observability.SetGridHooks(&logHooks{logger: c.Logger})
			observability.SetStoreHooks(&logHooks{logger: c.Logger})
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/blockgrid/config.toml)")
	root.PersistentFlags().StringVarP(&c.workspace, "workspace", "w", "", "workspace name (default: from config)")
	root.PersistentFlags().StringVar(&c.backend, "store", "", "store backend: memory, null, file, sqlite, redis, mongo")

	// Grid operations
	root.AddCommand(c.createCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.resetCommand())

	// Inspection and transfer
	root.AddCommand(c.showCommand())
	root.AddCommand(c.itemsCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())

	// Front ends
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())

	// Housekeeping
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Workspace Factory
// =============================================================================

// loadConfig reads the config file and applies the global flags.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.workspace != "" {
		cfg.Workspace = c.workspace
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// workspaceOptions opens the configured store and returns workspace options
// using it. The caller closes the store.
func (c *CLI) workspaceOptions(ctx context.Context, cfg config.Config) (workspace.Options, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return workspace.Options{}, err
	}
	c.Logger.Debug("opened store", "backend", cfg.Store.Backend, "location", store.Describe(cfg.Store))
	return workspace.Options{
		Store:  st,
		Keyer:  store.NewKeyer(""),
		Engine: grid.Options{UniqueItems: cfg.UniqueItems},
		Logger: c.Logger,
	}, nil
}

// openWorkspace opens the configured workspace. The returned close function
// releases the store.
func (c *CLI) openWorkspace(ctx context.Context) (*workspace.Workspace, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	opts, err := c.workspaceOptions(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	ws, err := workspace.Open(ctx, cfg.Workspace, opts)
	if err != nil {
		opts.Store.Close()
		return nil, nil, err
	}
	return ws, func() { opts.Store.Close() }, nil
}

// withWorkspace runs fn against the configured workspace.
func (c *CLI) withWorkspace(ctx context.Context, fn func(*workspace.Workspace) error) error {
	ws, closeStore, err := c.openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(ws)
}

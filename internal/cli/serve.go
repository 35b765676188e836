package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgrid/internal/server"
	"github.com/matzehuels/blockgrid/pkg/store"
	"github.com/matzehuels/blockgrid/pkg/workspace"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve workspaces over a JSON HTTP API until interrupted. All workspaces share
the configured store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			opts, err := c.workspaceOptions(ctx, cfg)
			if err != nil {
				return err
			}
			defer opts.Store.Close()

			printInfo("Serving on %s", StyleHighlight.Render(addr))
			printDetail("Store: %s (%s)", cfg.Store.Backend, store.Describe(cfg.Store))
			srv := server.New(workspace.NewManager(opts), c.Logger)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config)")

	return cmd
}

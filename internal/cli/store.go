package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgrid/pkg/store"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect the configured store",
	}

	cmd.AddCommand(c.storePathCommand())
	cmd.AddCommand(c.storeCheckCommand())

	return cmd
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the store keeps its data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(store.Describe(cfg.Store))
			return nil
		},
	}
}

// storeCheckCommand creates the "store check" subcommand.
func (c *CLI) storeCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the store is reachable and writable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Checking %s store...", cfg.Store.Backend))
			spinner.Start()
			elapsed, err := checkStore(cmd.Context(), cfg.Store)
			if err != nil {
				spinner.StopWithError(fmt.Sprintf("Store check failed: %v", err))
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Store %s is healthy (%s)", cfg.Store.Backend, elapsed.Round(time.Millisecond)))
			printDetail("Location: %s", store.Describe(cfg.Store))
			return nil
		},
	}
}

// checkStore opens the store and round-trips a probe key.
func checkStore(ctx context.Context, cfg store.Config) (time.Duration, error) {
	start := time.Now()
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer st.Close()

	key := store.NewKeyer("").Key("healthcheck", store.FieldGrid)
	want := time.Now().UTC().Format(time.RFC3339Nano)
	if err := st.Set(ctx, key, want); err != nil {
		return 0, err
	}
	defer st.Delete(ctx, key)

	got, found, err := st.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	// The null backend discards writes.
	if cfg.Backend != store.BackendNull && (!found || got != want) {
		return 0, fmt.Errorf("probe key %s read back %q, want %q", key, got, want)
	}
	return time.Since(start), nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunchline/core/internal/api"
	"github.com/lunchline/core/internal/queue"
)

// NewFlushCommand creates the flush command.
func NewFlushCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flush",
		Short: "Replay pending requests now",
		Long: `Run one replay pass against the configured API base URL.

Delivered requests are removed, permanently rejected requests are
quarantined, and the pass stops early if the server is unreachable.

Examples:
  lunchline flush
  lunchline flush --base-url https://staging.lunchline.app/v1 --format json`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			store, closer, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closer()

			client := api.NewClient(cfg.BaseURL)
			manager := queue.NewManager(store, func(ctx context.Context, req queue.Request) error {
				return client.Do(ctx, req.Endpoint, req.Method, req.Body, req.Headers, nil)
			})

			result := manager.ProcessQueue(cmd.Context())

			if rootOpts.Format == "json" {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "sent: %d  quarantined: %d  deferred: %d\n",
				result.Sent, result.Quarantined, result.Deferred)
			if result.Stopped {
				fmt.Fprintln(cmd.OutOrStdout(), "stopped early: server unreachable")
			}
			return nil
		},
	}

	return cmd
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// StatusResult holds queue counts for output.
type StatusResult struct {
	Pending int `json:"pending"`
	Failed  int `json:"failed"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show offline queue counts",
		Long: `Show how many mutations are waiting for replay and how many have
been quarantined after permanent failures.

Examples:
  lunchline status
  lunchline status --data-dir ./data --format json`,
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

			pending, failed, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}

			result := StatusResult{Pending: pending, Failed: failed}

			if rootOpts.Format == "json" {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "pending: %d\nfailed:  %d\n", result.Pending, result.Failed)
			return nil
		},
	}

	return cmd
}

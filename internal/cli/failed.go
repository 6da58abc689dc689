package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// FailedRow is one quarantined request in command output.
type FailedRow struct {
	ID        int64  `json:"id"`
	Endpoint  string `json:"endpoint"`
	Method    string `json:"method"`
	CreatedAt string `json:"created_at"`
	Body      string `json:"body,omitempty"`
}

// NewFailedCommand creates the failed command.
func NewFailedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "failed",
		Short: "List quarantined requests",
		Long: `List requests that were rejected by the server as permanently
unfulfillable. They are kept for inspection and never retried.

Examples:
  lunchline failed
  lunchline failed --format json`,
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

			failed, err := store.ListFailed(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([]FailedRow, 0, len(failed))
			for _, r := range failed {
				row := FailedRow{
					ID:        r.ID,
					Endpoint:  r.Endpoint,
					Method:    r.Method,
					CreatedAt: time.UnixMilli(r.CreatedAt).UTC().Format(time.RFC3339),
				}
				if r.Body.Valid {
					row.Body = r.Body.String
				}
				rows = append(rows, row)
			}

			if rootOpts.Format == "json" {
				data, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no failed requests")
				return nil
			}
			for _, row := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n",
					row.ID, row.Method, row.Endpoint, row.CreatedAt)
			}
			return nil
		},
	}

	return cmd
}

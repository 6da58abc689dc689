// Package cli implements the lunchline queue inspection CLI.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunchline/core/internal/config"
	"github.com/lunchline/core/internal/db"
	"github.com/lunchline/core/internal/queue"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DataDir    string
	BaseURL    string
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the lunchline CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "lunchline",
		Short: "LunchLine offline core",
		Long:  "Inspect and flush the LunchLine offline mutation queue.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "data directory (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", "", "API base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewFailedCommand(opts))
	cmd.AddCommand(NewFlushCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return cfg, nil
}

// openStore opens the durable store for the configured data directory.
func openStore(cfg *config.Config) (*queue.Store, func() error, error) {
	handle, err := db.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	store := queue.NewStore(handle.DB)
	closer := func() error {
		store.Close()
		return handle.Close()
	}
	return store, closer, nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"matchenv/internal/config"
)

func newValidateCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Normalize a config file and report diagnostics without building a simulation",
		RunE: func(_ *cobra.Command, _ []string) error {
			logger := newLogger(verbose)

			raw, err := loadRawConfig(configPath)
			if err != nil {
				return err
			}

			cfg, diags, err := config.Normalize(config.Raw(raw), logger)
			if err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			for _, diag := range diags {
				fmt.Printf("warning: %s: %s\n", diag.Key, diag.Message)
			}
			fmt.Printf("ok: team sizes %v, opponents %v, tick skip %d\n",
				cfg.TeamSizeValues(), cfg.OpponentValues(), cfg.TickSkip)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML match configuration")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "debug logging")
	return cmd
}

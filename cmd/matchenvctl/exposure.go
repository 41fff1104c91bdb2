package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"matchenv/internal/storage"
)

func newExposureCmd() *cobra.Command {
	var (
		storeKind string
		storeDSN  string
		runID     string
	)

	cmd := &cobra.Command{
		Use:   "exposure",
		Short: "Read a run's journaled exposure rollup from a store backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if runID == "" {
				return fmt.Errorf("--run-id is required")
			}

			store, err := storage.NewStore(storeKind, storeDSN)
			if err != nil {
				return err
			}
			if err := store.Init(cmd.Context()); err != nil {
				return fmt.Errorf("init store: %w", err)
			}
			defer storage.CloseIfSupported(store)

			buckets, ok, err := store.GetExposure(cmd.Context(), runID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no exposure recorded for run %s", runID)
			}

			printExposure(buckets)
			return nil
		},
	}

	cmd.Flags().StringVar(&storeKind, "store", "sqlite", "store backend: memory, sqlite, redis")
	cmd.Flags().StringVar(&storeDSN, "dsn", "matchenv.db", "sqlite path or redis URL")
	cmd.Flags().StringVar(&runID, "run-id", "", "run identifier")
	return cmd
}

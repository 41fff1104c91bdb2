package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"matchenv/pkg/matchenv"
)

func newRolloutCmd() *cobra.Command {
	var (
		configPath string
		episodes   int
		maxSteps   int
		seed       int64
		storeKind  string
		storeDSN   string
		runID      string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Run random-policy episodes against a config and report per-configuration exposure",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(verbose)

			raw, err := loadRawConfig(configPath)
			if err != nil {
				return err
			}

			client, err := matchenv.New(cmd.Context(), raw, matchenv.Options{
				StoreKind: storeKind,
				StoreDSN:  storeDSN,
				RunID:     runID,
				Logger:    logger,
			})
			if err != nil {
				return err
			}
			defer client.Close()

			summary, err := client.Rollout(cmd.Context(), episodes, maxSteps, seed)
			if err != nil {
				return err
			}

			fmt.Printf("run %s: %d episodes, %s agent-steps\n",
				client.RunID(), summary.Episodes, humanize.Comma(int64(summary.AgentSteps)))
			printExposure(summary.Exposure)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML match configuration")
	cmd.Flags().IntVar(&episodes, "episodes", 10, "episodes to run")
	cmd.Flags().IntVar(&maxSteps, "steps", 300, "max environment steps per episode")
	cmd.Flags().Int64Var(&seed, "seed", 0, "wrapper RNG seed")
	cmd.Flags().StringVar(&storeKind, "store", "", "episode journal backend: memory, sqlite, redis")
	cmd.Flags().StringVar(&storeDSN, "dsn", "", "sqlite path or redis URL")
	cmd.Flags().StringVar(&runID, "run-id", "", "run identifier for journaled records")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "debug logging")
	return cmd
}

func printExposure(buckets []matchenv.ExposureBucket) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OPPONENTS\tTEAM SIZE\tAGENT STEPS")
	for _, bucket := range buckets {
		fmt.Fprintf(w, "%t\t%d\t%s\n",
			bucket.Opponents, bucket.TeamSize, humanize.Comma(int64(bucket.AgentSteps)))
	}
	w.Flush()
}

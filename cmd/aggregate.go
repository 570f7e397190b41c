package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/toggl-timesheet/internal/config"
	"github.com/Tiliavir/toggl-timesheet/internal/storage"
	"github.com/Tiliavir/toggl-timesheet/internal/store"
	"github.com/Tiliavir/toggl-timesheet/internal/summary"
)

var (
	aggregateInputPath  string
	aggregateOutputPath string
	aggregateDBPath     string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Summarise a time-entry export per day into the silver tier",
	Args:  cobra.NoArgs,
	RunE:  runAggregate,
}

func init() {
	aggregateCmd.Flags().StringVarP(&aggregateInputPath, "input-path", "i", "", "Path of a time_entries.csv export")
	aggregateCmd.Flags().StringVarP(&aggregateOutputPath, "output-path", "o", config.DefaultSilverPath, "Root of the silver tier")
	aggregateCmd.Flags().StringVar(&aggregateDBPath, "db", "", "Also upsert the summary into this sqlite database")
	_ = aggregateCmd.MarkFlagRequired("input-path")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	out := aggregateOutputPath
	if !cmd.Flags().Changed("output-path") {
		out = cfg.Datalake.SilverPath
	}
	outPath := storage.SummaryPath(out)

	summaries, err := summary.Aggregate(aggregateInputPath, outPath)
	if err != nil {
		return err
	}
	logger.Info("summary stored", "input", aggregateInputPath, "path", outPath, "days", len(summaries))

	if aggregateDBPath != "" {
		db, err := store.Open(aggregateDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.SaveSummaries(aggregateInputPath, summaries); err != nil {
			return err
		}
		logger.Info("summary saved to database", "db", aggregateDBPath, "days", len(summaries))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Summary stored at: %s (%d days)\n", outPath, len(summaries))
	return nil
}

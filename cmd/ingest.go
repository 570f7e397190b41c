package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/toggl-timesheet/internal/config"
	"github.com/Tiliavir/toggl-timesheet/internal/ingest"
	"github.com/Tiliavir/toggl-timesheet/internal/toggl"
)

var (
	ingestOutputPath string
	ingestYear       int
	ingestMonth      int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Download one month of time entries into the bronze tier",
	Long: `ingest writes organizations.json, workspaces.json and
<YYYY>/<MM>/time_entries.csv below the output path. The export is requested
for the first admin workspace as a single unpaginated report.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestOutputPath, "output-path", "o", config.DefaultBronzePath, "Root of the bronze tier")
	ingestCmd.Flags().IntVarP(&ingestYear, "year", "y", 0, "Year")
	ingestCmd.Flags().IntVarP(&ingestMonth, "month", "m", 0, "Month (1-12)")
	_ = ingestCmd.MarkFlagRequired("year")
	_ = ingestCmd.MarkFlagRequired("month")
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := ingestOutputPath
	if !cmd.Flags().Changed("output-path") {
		out = cfg.Datalake.BronzePath
	}

	sess := toggl.NewSession(cfg.Toggl.APIToken)
	defer sess.Close()

	client := toggl.NewClient(toggl.Endpoint{
		BaseURL:        cfg.Toggl.BaseURL,
		APIVersion:     cfg.Toggl.APIVersion,
		ReportsVersion: cfg.Toggl.ReportsVersion,
	}, sess.Client, logger.Logger)

	res, err := ingest.Run(cmd.Context(), client, ingest.Options{
		OutputPath: out,
		Year:       ingestYear,
		Month:      time.Month(ingestMonth),
		Logger:     logger.Logger,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Report stored at: %s\n", res.ExportPath)
	return nil
}

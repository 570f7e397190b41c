package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/toggl-timesheet/internal/config"
	"github.com/Tiliavir/toggl-timesheet/internal/log"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "timesheet",
	Short: "Export Toggl Track time entries and summarise them per day",
	Long: `timesheet pulls one month of Toggl Track time entries into the bronze tier
(ingest) and collapses an export into one row per day in the silver tier
(aggregate). The API token is read from TOGGL_API_TOKEN or a .env file.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional TOML config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log API calls at debug level")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(aggregateCmd)
}

// setup loads .env, the config and the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = log.New(log.Config{
		Level:     level,
		Component: cmd.Name(),
		Output:    cmd.ErrOrStderr(),
	}).With("run_id", uuid.NewString())

	return nil
}

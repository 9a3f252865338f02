// Command cycle-worker runs the scheduled pay cycle jobs without relying on an
// external scheduler calling the /internal/cron endpoints.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payday/internal/config"
	"payday/internal/cycledate"
	"payday/internal/database"
	"payday/internal/jobs"
	"payday/internal/logger"
	"payday/internal/notify"
	"payday/internal/services"

	"github.com/spf13/cobra"
)

var (
	flagInterval time.Duration
	flagDate     string
)

var rootCmd = &cobra.Command{
	Use:           "cycle-worker",
	Short:         "Switch households to their next pay cycle and send payday reminders",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the jobs on an interval until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runLoop,
}

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run the switchover and reminders a single time and print the reports",
	Args:  cobra.NoArgs,
	RunE:  runOnce,
}

func init() {
	runCmd.Flags().DurationVar(&flagInterval, "interval", 0, "Polling interval (defaults to WORKER_INTERVAL)")
	onceCmd.Flags().StringVar(&flagDate, "date", "", "Run as if today were this date (YYYY-MM-DD)")
	rootCmd.AddCommand(runCmd, onceCmd)
}

// setup loads the configuration and builds a runner. The returned cleanup
// closes the publisher and the database.
func setup() (*config.Config, *jobs.Runner, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create database manager: %w", err)
	}

	publisher, err := notify.Open(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		dbManager.Close()
		return nil, nil, nil, fmt.Errorf("failed to connect to message broker: %w", err)
	}

	runner := jobs.NewRunner(services.NewPayCycleService(dbManager.DB()), publisher, cfg.WorkerConcurrency)
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logger.Get().Warnw("failed to close publisher", "error", err)
		}
		if err := dbManager.Close(); err != nil {
			logger.Get().Warnw("failed to close database", "error", err)
		}
	}
	return cfg, runner, cleanup, nil
}

func runLoop(_ *cobra.Command, _ []string) error {
	cfg, runner, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	interval := flagInterval
	if interval <= 0 {
		interval = cfg.WorkerInterval
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Get().Infow("cycle worker started", "interval", interval.String(), "concurrency", cfg.WorkerConcurrency)
	if err := runner.Loop(ctx, interval, time.Now); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Get().Info("cycle worker stopped")
	return nil
}

func runOnce(cmd *cobra.Command, _ []string) error {
	today := cycledate.Truncate(time.Now())
	if flagDate != "" {
		d, err := time.Parse("2006-01-02", flagDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		today = d
	}

	_, runner, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	switchover, err := runner.Switchover(ctx, today)
	if err != nil {
		return fmt.Errorf("switchover: %w", err)
	}
	reminders, err := runner.PaydayReminders(ctx, today)
	if err != nil {
		return fmt.Errorf("payday reminders: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"date":       today.Format("2006-01-02"),
		"switchover": switchover,
		"reminders":  reminders,
	})
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Get().Fatalf("cycle worker: %v", err)
	}
}

package main

import (
	"errors"
	"fmt"
	"os"

	"payday/internal/config"
	"payday/internal/database"
	"payday/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

var flagSteps int

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the Payday database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
		logger.Get().Info("Migrations applied successfully")
		return nil
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migrate.Migrate) error {
		if flagSteps < 1 {
			return fmt.Errorf("invalid step count: %d", flagSteps)
		}
		if err := m.Steps(-flagSteps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		logger.Get().Infof("Rolled back %d migration(s)", flagSteps)
		return nil
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migrate.Migrate) error {
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)
		return nil
	}),
}

func init() {
	downCmd.Flags().IntVarP(&flagSteps, "steps", "n", 1, "Number of migrations to roll back")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}

// withMigrator opens a migrate instance for the configured database and
// closes it after fn returns.
func withMigrator(fn func(m *migrate.Migrate) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		m, err := database.NewMigrator(database.NewConfig(cfg))
		if err != nil {
			return err
		}
		defer database.CloseMigrator(m)

		return fn(m)
	}
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

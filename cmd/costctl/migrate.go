package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/database"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [N]",
	Short: "Roll back the last N migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMigrateDown,
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE:  runMigrateVersion,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runMigrateUp(_ *cobra.Command, _ []string) error {
	mgr, err := openDatabase()
	if err != nil {
		return err
	}
	defer mgr.Close()

	return mgr.RunMigrations()
}

func runMigrateDown(_ *cobra.Command, args []string) error {
	steps := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		steps = n
	}

	return withMigrator(func(m *migrate.Migrate) error {
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		logger.Get().Infof("Rolled back %d migration(s)", steps)
		return nil
	})
}

func runMigrateVersion(_ *cobra.Command, _ []string) error {
	return withMigrator(func(m *migrate.Migrate) error {
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("  No migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		fmt.Printf("  Version: %d, Dirty: %v\n", version, dirty)
		return nil
	})
}

// withMigrator opens the database and runs fn against its SQL migrator.
func withMigrator(fn func(*migrate.Migrate) error) error {
	mgr, err := openDatabase()
	if err != nil {
		return err
	}
	defer mgr.Close()

	m, err := mgr.Migrator()
	if errors.Is(err, database.ErrMigrationsUnsupported) {
		return fmt.Errorf("%w; sqlite schemas are managed by 'costctl migrate up'", err)
	}
	if err != nil {
		return err
	}
	defer database.CloseMigrator(m)

	return fn(m)
}

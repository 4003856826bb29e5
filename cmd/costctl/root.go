package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/config"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/database"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/logger"
)

var (
	flagDriver     string
	flagSQLitePath string
	flagConfigFile string
)

// cfg is loaded before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "costctl",
	Short:         "Project cost tracking administration",
	Long:          "Migrate the cost tracking database, seed reference data and print EVM reports.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.Init(os.Getenv("ENV"))

		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("driver") {
			loaded.DBDriver = flagDriver
		}
		if cmd.Flags().Changed("sqlite-path") {
			loaded.SQLitePath = flagSQLitePath
		}
		if cmd.Flags().Changed("config") {
			loaded.ConfigFile = flagConfigFile
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		logger.Sync()
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDriver, "driver", "", "Database driver (postgres or sqlite), overrides DB_DRIVER")
	rootCmd.PersistentFlags().StringVar(&flagSQLitePath, "sqlite-path", "", "SQLite database file, overrides SQLITE_PATH")
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "Analytics YAML overlay, overrides CONFIG_FILE")
}

// openDatabase is the shared connection path used by all commands.
func openDatabase() (*database.Manager, error) {
	mgr, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, err
	}
	return mgr, nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/internal/history"
	"github.com/huangsam/fairprice/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyConfig loads the minimal configuration needed for history operations.
// It skips dataset and pricing validation entirely.
func historyConfig() error {
	configureConfigFile()
	if err := readConfigFile(); err != nil {
		return err
	}

	// Handle empty backend as NoneBackend
	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper opens the history store for commands that read it.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	if err := historyConfig(); err != nil {
		return err
	}
	if err := history.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historyMigrateSetupWrapper does NOT open the store or create tables,
// allowing migrations and clears to run on a fresh database.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := historyConfig(); err != nil {
		return err
	}
	// For SQLite backend with empty connection string, use default path
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect == "" {
		cfg.HistoryDBConnect = contract.GetHistoryDBFilePath()
	}
	return nil
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization (historyConfig) instead of
// the full sharedSetup used by analysis commands. This avoids dataset and
// pricing validation for simple history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage pricing run history and exports",
	Long: `Manage the stored history of pricing runs.

When a history backend is configured, fairprice records every analysis run:
- Run metadata (timestamp, configuration, duration)
- Scenario prices, demand, revenue and guardrail reasons per product
- Segmentation matrix cells and their elasticities

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show run history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all history data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  fairprice history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  fairprice history export --history-backend sqlite --output-file runs`,
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored run history",
	Long: `Delete all stored runs, scenario results and matrix cells.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  fairprice history export --history-backend sqlite --output-file backup
  fairprice history clear --history-backend sqlite`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ClearHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows run history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, connection state, run counts and table sizes of the
run history store.

Examples:
  fairprice history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := history.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", fmt.Errorf("history store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored run history to Parquet.

Writes three files next to --output-file:
- <output-file>.runs.parquet
- <output-file>.scenario_results.parquet
- <output-file>.segment_cells.parquet

Examples:
  fairprice history export --history-backend sqlite --output-file runs
  duckdb -c "SELECT * FROM read_parquet('runs.scenario_results.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExportHistory(os.Stdout, history.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  fairprice history migrate --history-backend sqlite

  # Rollback to initial state
  fairprice history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.MigrateHistory(os.Stdout, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

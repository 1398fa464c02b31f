package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/internal/iocache"
	"github.com/huangsam/callerid/internal/outwriter"
	"github.com/huangsam/callerid/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errNoHistory is returned when a history command runs without a history backend.
var errNoHistory = errors.New("build history is not configured; set --history-backend")

// historySetup opens only the history store.
func historySetup() error {
	if err := loadValidatedConfig(); err != nil {
		return err
	}
	if cfg.HistoryBackend == "" || cfg.HistoryBackend == schema.NoneBackend {
		return errNoHistory
	}
	if err := iocache.InitStores(schema.NoneBackend, "", cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup validates config without opening the store, so that
// migrations can run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadValidatedConfig(); err != nil {
		return err
	}
	if cfg.HistoryBackend == "" || cfg.HistoryBackend == schema.NoneBackend {
		return errNoHistory
	}
	return nil
}

// historyCmd focused on build history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage the record of cache builds",
	Long: `Every cache build attempt can be recorded with its trigger, outcome,
duration and counts. Names and numbers are never stored.

History is off unless --history-backend is set.

Subcommands:
  status  - Show history statistics and connection info
  list    - Show the most recent builds
  clear   - Remove all recorded builds
  export  - Write all builds to a Parquet file
  migrate - Run schema migrations

Examples:
  callerid history list --history-backend sqlite --limit 5`,
}

// historyStatusCmd shows history store status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display build history statistics and connection details",
	PreRunE: historySetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		status, err := iocache.Stores.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(cmd.OutOrStdout(), status)
	},
}

// historyListCmd prints recent builds.
var historyListCmd = &cobra.Command{
	Use:     "list",
	Short:   "Show the most recent cache builds",
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		runs, err := iocache.Stores.GetHistoryStore().ListBuilds(cfg.HistoryLimit)
		if err != nil {
			return fmt.Errorf("failed to list builds: %w", err)
		}
		return outwriter.NewOutWriter().WriteBuilds(runs, cfg)
	},
}

// historyClearCmd clears the history store.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded cache builds",
	Long: `Delete all recorded builds from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history and migration tables

Examples:
  # Export before clearing
  callerid history export --output-file builds.parquet
  callerid history clear`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("Build history cleared successfully.")
	},
}

// historyExportCmd exports build history to Parquet.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export build history to Parquet for analytics tools",
	Long: `Export every recorded build to a Parquet file.

Requires: --output-file parameter

Examples:
  callerid history export --output-file builds.parquet
  duckdb -c "SELECT outcome, count(*) FROM read_parquet('builds.parquet') GROUP BY 1"`,
	PreRunE: historySetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(cmd.OutOrStdout(), iocache.Stores.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export build history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the build history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  callerid history migrate --history-backend sqlite

  # Rollback everything
  callerid history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cmd.OutOrStdout(), cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

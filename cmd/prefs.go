package cmd

import (
	"fmt"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/internal/iocache"
	"github.com/spf13/cobra"
)

// prefsSetup opens only the preference store.
func prefsSetup() error {
	if err := loadValidatedConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.PrefBackend, cfg.PrefDBConnect, "", ""); err != nil {
		return fmt.Errorf("failed to initialize preferences: %w", err)
	}
	return nil
}

// prefsSetupWrapper wraps prefsSetup to provide PreRunE for prefs commands.
func prefsSetupWrapper(_ *cobra.Command, _ []string) error {
	return prefsSetup()
}

// prefsCmd focused on preference store management.
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage the stored cache preference and access decision",
	Long: `Manage the store that remembers whether the contact cache is enabled
and, when prompting is used, the answer to the contact access prompt.

Supported backends: SQLite (default), MySQL, PostgreSQL, Redis, or None (in-memory)

Subcommands:
  status - Show store statistics and connection info
  clear  - Remove every stored preference

Examples:
  callerid prefs status
  CALLERID_PREF_BACKEND=redis CALLERID_PREF_DB_CONNECT=redis://localhost:6379/0 callerid prefs status`,
}

// prefsClearCmd clears the preference store.
var prefsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stored preference",
	Long: `Delete the cache preference and any remembered access decision.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the preferences table
For Redis: Deletes the callerid keys`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearPreferences(cfg.PrefBackend, cfg.PrefDBConnect); err != nil {
			contract.LogFatal("Failed to clear preferences", err)
		}
		fmt.Println("Preferences cleared successfully.")
	},
}

// prefsStatusCmd shows preference store status.
var prefsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display preference store statistics and connection details",
	PreRunE: prefsSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		status, err := iocache.Stores.GetPreferenceStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get preference status", err)
		}
		iocache.PrintPreferenceStatus(cmd.OutOrStdout(), status)
	},
}

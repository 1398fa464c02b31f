// Package cmd defines the command-line interface for callerid.
package cmd

import (
	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(accessCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the access subcommands to the parent access command
	accessCmd.AddCommand(accessStatusCmd)
	accessCmd.AddCommand(accessResetCmd)

	// Add the prefs subcommands to the parent prefs command
	prefsCmd.AddCommand(prefsClearCmd)
	prefsCmd.AddCommand(prefsStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("contacts", "", "Path to a contact export (csv, json or parquet)")
	rootCmd.PersistentFlags().String("contacts-format", "", "Contact export format: csv or json or parquet (default: from file extension)")
	rootCmd.PersistentFlags().String("authorization", "", "Fixed directory authorization: not_determined or denied or restricted or authorized or limited (default: prompt)")
	rootCmd.PersistentFlags().String("country-code", contract.DefaultCountryCode, "Country calling code for domestic numbers")
	rootCmd.PersistentFlags().Int("national-length", contract.DefaultNationalLength, "Digits in a domestic subscriber number")
	rootCmd.PersistentFlags().String("trunk-prefix", contract.DefaultTrunkPrefix, "Domestic trunk prefix to strip (empty for none)")
	rootCmd.PersistentFlags().String("pref-backend", string(schema.SQLiteBackend), "Preference backend: sqlite or mysql or postgresql or redis or none")
	rootCmd.PersistentFlags().String("pref-db-connect", "", "Connection string for the preference backend")
	rootCmd.PersistentFlags().String("history-backend", "", "Build history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Connection string for build history (must differ from pref-db-connect)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of historyListCmd to Viper
	historyListCmd.Flags().IntP("limit", "l", contract.DefaultHistoryLimit, "Number of builds to display (0 = all)")
	if err := viper.BindPFlags(historyListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history list flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}

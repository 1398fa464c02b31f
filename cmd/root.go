package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/internal/directory"
	"github.com/huangsam/callerid/internal/iocache"
	"github.com/huangsam/callerid/internal/phone"
	"github.com/huangsam/callerid/internal/resolver"
	"github.com/huangsam/callerid/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "callerid",
	Short: "Resolve incoming phone numbers to contact names.",
	Long: `callerid keeps an in-memory index of your contact directory so that any
phone number, in any common notation, resolves to the name you saved for it.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in ENV variables and sets defaults.
func initConfig() {
	// Set environment variable prefix
	viper.SetEnvPrefix("CALLERID")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("country-code", contract.DefaultCountryCode)
	viper.SetDefault("national-length", contract.DefaultNationalLength)
	viper.SetDefault("trunk-prefix", contract.DefaultTrunkPrefix)
	viper.SetDefault("pref-backend", schema.SQLiteBackend)
	viper.SetDefault("pref-db-connect", "")
	viper.SetDefault("history-backend", "")
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("limit", contract.DefaultHistoryLimit)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".callerid") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// loadValidatedConfig merges defaults, file, env and flags into cfg.
func loadValidatedConfig() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	return contract.ProcessAndValidate(cfg, input)
}

// configSetupWrapper validates the config without opening any store.
func configSetupWrapper(_ *cobra.Command, _ []string) error {
	return loadValidatedConfig()
}

// sharedSetup validates the config and opens the preference and history stores.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := loadValidatedConfig(); err != nil {
		return err
	}

	// Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.PrefBackend, cfg.PrefDBConnect, cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// newGate returns the permission gate for the configured authorization.
// A fixed authorization simulates the host, answering yes to a request when
// undecided. Otherwise the user is prompted and the answer is stored next to
// the cache preference.
func newGate(c *contract.Config, stores contract.StoreManager) contract.PermissionGate {
	if c.Authorization != "" {
		return directory.NewStaticGate(c.Authorization, schema.Authorized)
	}
	return directory.NewPromptGate(stores.GetPreferenceStore())
}

// newResolver wires the cache from the validated config and the open stores,
// then applies the persisted preference.
func newResolver(ctx context.Context, c *contract.Config, stores contract.StoreManager, extra ...resolver.Option) *resolver.Manager {
	gate := newGate(c, stores)

	source, err := directory.NewFileSource(c.ContactsPath, c.ContactsFormat)
	if err != nil {
		source = directory.UnavailableSource{Err: err}
	}

	opts := []resolver.Option{}
	if history := stores.GetHistoryStore(); history != nil {
		opts = append(opts, resolver.WithHistory(history))
	}
	opts = append(opts, extra...)

	mgr := resolver.New(
		gate,
		directory.NewGatedSource(gate, source),
		iocache.NewPreferenceFlag(stores.GetPreferenceStore()),
		phone.New(c.CountryCode, c.NationalLength, c.TrunkPrefix),
		opts...,
	)
	if err := mgr.InitializeOnLaunch(ctx); err != nil {
		contract.LogWarn("Failed to restore cache preference", err)
	}
	return mgr
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

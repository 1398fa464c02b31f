package contract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/huangsam/callerid/schema"
)

// Default values for configuration.
const (
	DefaultCountryCode    = "420"
	DefaultNationalLength = 9
	DefaultTrunkPrefix    = "0"
	DefaultHistoryLimit   = 20
	MaxNationalLength     = 15
)

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	ContactsPath   string
	ContactsFormat schema.ContactFormat

	// Authorization fixes the host-reported status; empty means prompt.
	Authorization schema.AuthorizationStatus

	CountryCode    string
	NationalLength int
	TrunkPrefix    string

	PrefBackend   schema.DatabaseBackend
	PrefDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
	HistoryLimit     int

	Output     schema.OutputMode
	OutputFile string
	UseColors  bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	Contacts       string `mapstructure:"contacts"`
	ContactsFormat string `mapstructure:"contacts-format"`
	Authorization  string `mapstructure:"authorization"`

	CountryCode    string `mapstructure:"country-code"`
	NationalLength int    `mapstructure:"national-length"`
	TrunkPrefix    string `mapstructure:"trunk-prefix"`

	PrefBackend      string `mapstructure:"pref-backend"`
	PrefDBConnect    string `mapstructure:"pref-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	HistoryLimit     int    `mapstructure:"limit"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Color      string `mapstructure:"color"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processNumbering(cfg, input); err != nil {
		return err
	}
	if err := processContacts(cfg, input); err != nil {
		return err
	}
	return ValidateBackendConfigs(cfg, input)
}

// validateSimpleInputs processes and validates output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	if input.HistoryLimit < 0 {
		return fmt.Errorf("limit cannot be negative (received %d)", input.HistoryLimit)
	}
	cfg.HistoryLimit = input.HistoryLimit

	return nil
}

// processNumbering validates the domestic numbering plan used by normalization.
func processNumbering(cfg *Config, input *ConfigRawInput) error {
	cc := strings.TrimPrefix(strings.TrimSpace(input.CountryCode), "+")
	if cc == "" || !isDigits(cc) || len(cc) > 3 {
		return fmt.Errorf("country-code must be 1-3 digits (received '%s')", input.CountryCode)
	}
	cfg.CountryCode = cc

	if input.NationalLength < 1 || input.NationalLength > MaxNationalLength {
		return fmt.Errorf("national-length must be between 1 and %d (received %d)", MaxNationalLength, input.NationalLength)
	}
	cfg.NationalLength = input.NationalLength

	trunk := strings.TrimSpace(input.TrunkPrefix)
	if trunk != "" && !isDigits(trunk) {
		return fmt.Errorf("trunk-prefix must be digits (received '%s')", input.TrunkPrefix)
	}
	cfg.TrunkPrefix = trunk

	return nil
}

// processContacts resolves the contact export and the simulated host authorization.
func processContacts(cfg *Config, input *ConfigRawInput) error {
	cfg.ContactsPath = strings.TrimSpace(input.Contacts)

	format := strings.ToLower(strings.TrimSpace(input.ContactsFormat))
	if format == "" && cfg.ContactsPath != "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(cfg.ContactsPath)), ".")
	}
	if format != "" {
		cfg.ContactsFormat = schema.ContactFormat(format)
		if _, ok := schema.ValidContactFormats[cfg.ContactsFormat]; !ok {
			return fmt.Errorf("invalid contacts format '%s'. must be csv, json, parquet", format)
		}
	}

	cfg.Authorization = ""
	if strings.TrimSpace(input.Authorization) != "" {
		status, err := schema.ParseAuthorizationStatus(input.Authorization)
		if err != nil {
			return err
		}
		cfg.Authorization = status
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of connection strings
// for network backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.RedisBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.HasPrefix(connStr, "redis://") && !strings.HasPrefix(connStr, "rediss://") {
			return fmt.Errorf("Redis connection string must start with redis:// or rediss://")
		}
	}
	return nil
}

// ValidateBackendConfigs validates preference and history backend configurations.
func ValidateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Preference Backend Validation ---
	cfg.PrefBackend = schema.DatabaseBackend(strings.ToLower(input.PrefBackend))
	if _, ok := schema.ValidPreferenceBackends[cfg.PrefBackend]; !ok {
		return fmt.Errorf("invalid preference backend '%s'. must be sqlite, mysql, postgresql, redis, none", input.PrefBackend)
	}
	cfg.PrefDBConnect = input.PrefDBConnect
	if err := ValidateDatabaseConnectionString(cfg.PrefBackend, cfg.PrefDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidHistoryBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.PrefBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		prefPath := cfg.PrefDBConnect
		if prefPath == "" {
			prefPath = GetPreferenceDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if prefPath == historyPath {
			return fmt.Errorf("preference and history storage must use different SQLite database files. Both resolve to %q", prefPath)
		}
	}

	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/callerid/schema"
)

// Color variables for console output.
var (
	EnabledColor  = color.New(color.FgGreen, color.Bold) // EnabledColor marks an active cache.
	BusyColor     = color.New(color.FgYellow)            // BusyColor marks a build in flight.
	DisabledColor = color.New(color.FgCyan)              // DisabledColor marks an inactive cache.
	ErrorColor    = color.New(color.FgRed, color.Bold)   // ErrorColor marks a failure.
)

// GetStateLabel returns a colored label for a manager state.
func GetStateLabel(state schema.ManagerState, useColors bool) string {
	text := strings.ToUpper(string(state))
	if !useColors {
		return text
	}
	switch state {
	case schema.EnabledState:
		return EnabledColor.Sprint(text)
	case schema.EnablingState, schema.RefreshingState:
		return BusyColor.Sprint(text)
	case schema.ErrorState:
		return ErrorColor.Sprint(text)
	default:
		return DisabledColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetPreferenceDBFilePath returns the path to the SQLite DB file for preference storage.
func GetPreferenceDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".callerid_prefs.db"
	}
	return filepath.Join(homeDir, ".callerid_prefs.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for build history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".callerid_history.db"
	}
	return filepath.Join(homeDir, ".callerid_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/schema"
)

// WriteManagerStatus outputs the cache status, dispatching on the configured format.
func WriteManagerStatus(status schema.ManagerStatus, cfg *contract.Config) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeJSON(w, status) },
		func(w io.Writer) error { return writeStatusCSV(w, status) },
		func(w io.Writer) error { return writeStatusText(w, status, cfg.UseColors) },
	)
}

// statusFields flattens a status into ordered label/value pairs.
func statusFields(status schema.ManagerStatus) [][2]string {
	lastBuild := "never"
	if !status.LastBuild.IsZero() {
		lastBuild = status.LastBuild.Format(time.DateTime)
	}
	fields := [][2]string{
		{"State", string(status.State)},
		{"Enabled", strconv.FormatBool(status.Enabled)},
		{"Authorization", string(status.Authorization)},
		{"Loading", strconv.FormatBool(status.Loading)},
		{"Entries", strconv.Itoa(status.Entries)},
		{"Last Build", lastBuild},
	}
	if status.LastError != "" {
		fields = append(fields, [2]string{"Last Error", status.LastError})
	}
	return fields
}

// writeStatusText prints one "Label: value" line per field.
func writeStatusText(w io.Writer, status schema.ManagerStatus, useColors bool) error {
	for _, f := range statusFields(status) {
		value := f[1]
		if f[0] == "State" {
			value = contract.GetStateLabel(status.State, useColors)
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", f[0], value); err != nil {
			return err
		}
	}
	return nil
}

// writeStatusCSV writes the status as field,value records.
func writeStatusCSV(w io.Writer, status schema.ManagerStatus) error {
	return writeCSVWithHeader(w, []string{"field", "value"}, func(cw *csv.Writer) error {
		for _, f := range statusFields(status) {
			if err := cw.Write([]string{f[0], f[1]}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

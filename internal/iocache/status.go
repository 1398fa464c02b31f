package iocache

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/callerid/schema"
)

// PrintPreferenceStatus prints preference store status information.
func PrintPreferenceStatus(w io.Writer, status schema.PreferenceStatus) {
	_, _ = fmt.Fprintf(w, "Preference Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(time.DateTime))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(time.DateTime))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %s\n", humanize.Bytes(uint64(max(status.TableSizeBytes, 0))))
}

// PrintHistoryStatus prints build history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "Last Run ID: %s\n", status.LastRunID)
	_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(time.DateTime))
	_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(time.DateTime))
	_, _ = fmt.Fprintln(w, "Outcomes:")
	outcomes := make([]schema.BuildOutcome, 0, len(status.Outcomes))
	for outcome := range status.Outcomes {
		outcomes = append(outcomes, outcome)
	}
	slices.Sort(outcomes)
	for _, outcome := range outcomes {
		_, _ = fmt.Fprintf(w, "  %s: %d\n", outcome, status.Outcomes[outcome])
	}
}

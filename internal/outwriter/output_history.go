package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// maxErrorWidth caps the error column in the history table.
const maxErrorWidth = 40

// WriteBuildRuns outputs recorded build runs, dispatching on the configured format.
func WriteBuildRuns(runs []schema.BuildRun, cfg *contract.Config) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeJSON(w, runs) },
		func(w io.Writer) error { return writeBuildRunsCSV(w, runs) },
		func(w io.Writer) error { return writeBuildRunsTable(w, runs, cfg.UseColors) },
	)
}

// outcomeLabel colors an outcome for terminal output.
func outcomeLabel(outcome schema.BuildOutcome, useColors bool) string {
	text := string(outcome)
	if !useColors {
		return text
	}
	switch outcome {
	case schema.BuildPublished:
		return contract.EnabledColor.Sprint(text)
	case schema.BuildDiscarded:
		return contract.BusyColor.Sprint(text)
	default:
		return contract.ErrorColor.Sprint(text)
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// writeBuildRunsTable renders the most recent builds first.
func writeBuildRunsTable(w io.Writer, runs []schema.BuildRun, useColors bool) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "Trigger", "Outcome", "Started", "Duration", "Contacts", "Entries", "Conflicts", "Error"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, r := range runs {
		data = append(data, []string{
			truncate(r.RunID, 8),
			string(r.Trigger),
			outcomeLabel(r.Outcome, useColors),
			r.StartTime.Local().Format(time.DateTime),
			r.Duration().Round(time.Millisecond).String(),
			strconv.Itoa(r.Contacts),
			strconv.Itoa(r.Entries),
			strconv.Itoa(r.Conflicts),
			truncate(r.Error, maxErrorWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d build runs\n", len(runs))
	return err
}

// writeBuildRunsCSV writes every field of each run.
func writeBuildRunsCSV(w io.Writer, runs []schema.BuildRun) error {
	header := []string{
		"run_id", "trigger", "outcome", "start_time", "end_time",
		"duration_ms", "contacts", "entries", "conflicts", "error",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range runs {
			rec := []string{
				r.RunID,
				string(r.Trigger),
				string(r.Outcome),
				r.StartTime.UTC().Format(time.RFC3339Nano),
				r.EndTime.UTC().Format(time.RFC3339Nano),
				strconv.FormatInt(r.Duration().Milliseconds(), 10),
				strconv.Itoa(r.Contacts),
				strconv.Itoa(r.Entries),
				strconv.Itoa(r.Conflicts),
				r.Error,
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

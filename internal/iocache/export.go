package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/internal/parquet"
)

// ExecuteHistoryExport writes every recorded build run to a Parquet file.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("build history is not configured; set --history-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no build history found to export")
	}

	runs, err := store.ListBuilds(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve build runs: %w", err)
	}

	rows := parquet.ConvertBuildRuns(runs)
	if err := parquet.WriteBuildRunsParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write build runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d build runs from %s backend to: %s\n", len(rows), status.Backend, outputFile)
	return nil
}
